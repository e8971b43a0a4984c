package pagination

// Control is one entry in the page selector: a page number or an ellipsis.
type Control struct {
	Page     int  `json:"page,omitempty"`
	Active   bool `json:"active,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// ComputePageControls returns the page selector for currentPage. When the
// range is longer than maxVisible, a window of maxVisible consecutive pages
// is centered on the current page (hugging an edge when the current page is
// near it), pages 1 and totalPages are always present, and an ellipsis marks
// every omitted run between an edge page and the window.
func ComputePageControls(currentPage, totalPages, maxVisible int) []Control {
	if totalPages < 1 {
		return []Control{}
	}
	if maxVisible < 1 {
		maxVisible = DefaultMaxVisible
	}
	currentPage = clamp(currentPage, 1, totalPages)

	if totalPages <= maxVisible {
		out := make([]Control, 0, totalPages)
		for p := 1; p <= totalPages; p++ {
			out = append(out, pageControl(p, currentPage))
		}
		return out
	}

	start := currentPage - maxVisible/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisible - 1
	if end > totalPages {
		end = totalPages
		start = end - maxVisible + 1
	}

	out := make([]Control, 0, maxVisible+4)
	if start > 1 {
		out = append(out, pageControl(1, currentPage))
		if start > 2 {
			out = append(out, Control{Ellipsis: true})
		}
	}
	for p := start; p <= end; p++ {
		out = append(out, pageControl(p, currentPage))
	}
	if end < totalPages {
		if end < totalPages-1 {
			out = append(out, Control{Ellipsis: true})
		}
		out = append(out, pageControl(totalPages, currentPage))
	}
	return out
}

func pageControl(page, current int) Control {
	return Control{Page: page, Active: page == current}
}

// Pages returns the page numbers in controls, skipping ellipses.
func Pages(controls []Control) []int {
	out := make([]int, 0, len(controls))
	for _, c := range controls {
		if !c.Ellipsis {
			out = append(out, c.Page)
		}
	}
	return out
}
