package pagination

// PageInfo is the window plus the page selector, as list endpoints return it.
type PageInfo struct {
	Window
	Controls []Control `json:"controls"`
}

// Page is one rendered page of an in-memory collection.
type Page[T any] struct {
	Items    []T
	PageInfo PageInfo
}

// Paginate windows items for req and builds the selector controls.
func Paginate[T any](items []T, req Request, maxVisible int) Page[T] {
	w := ComputeWindow(req.Page, len(items), req.PageSize)
	visible := Slice(items, w)
	if visible == nil {
		visible = []T{}
	}
	return Page[T]{
		Items: visible,
		PageInfo: PageInfo{
			Window:   w,
			Controls: ComputePageControls(w.CurrentPage, w.TotalPages, maxVisible),
		},
	}
}
