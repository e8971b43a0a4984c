package pagination

// Pager is the current page of one list screen. Every transition re-clamps
// against the latest total, so the page never points past the data.
type Pager struct {
	page       int
	pageSize   int
	totalItems int
}

func NewPager(pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Pager{page: 1, pageSize: pageSize}
}

func (p *Pager) Window() Window {
	return ComputeWindow(p.page, p.totalItems, p.pageSize)
}

func (p *Pager) Controls(maxVisible int) []Control {
	w := p.Window()
	return ComputePageControls(w.CurrentPage, w.TotalPages, maxVisible)
}

func (p *Pager) Page() int { return p.Window().CurrentPage }

func (p *Pager) JumpTo(n int) {
	p.page = n
	p.reclamp()
}

func (p *Pager) Next() { p.JumpTo(p.page + 1) }

func (p *Pager) Prev() { p.JumpTo(p.page - 1) }

func (p *Pager) First() { p.JumpTo(1) }

func (p *Pager) Last() { p.JumpTo(p.Window().TotalPages) }

func (p *Pager) CanPrev() bool { return p.Window().HasPrevious }

func (p *Pager) CanNext() bool { return p.Window().HasNext }

// SetPageSize changes the page size and returns to page 1; the old offset
// would point past the new slice.
func (p *Pager) SetPageSize(n int) {
	if n < 1 {
		n = DefaultPageSize
	}
	p.pageSize = n
	p.page = 1
}

// SetFilteredTotal records the size of a newly filtered collection and
// returns to page 1.
func (p *Pager) SetFilteredTotal(n int) {
	p.totalItems = max(n, 0)
	p.page = 1
}

// Refresh records a new total for the same filter, keeping the page when it
// is still in range.
func (p *Pager) Refresh(n int) {
	p.totalItems = max(n, 0)
	p.reclamp()
}

func (p *Pager) reclamp() {
	p.page = p.Window().CurrentPage
}
