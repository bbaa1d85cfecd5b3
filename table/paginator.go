package table

// GridPageSizes are the page-size options the grid itself is configured
// with. NavigatorPageSizes are the options the alternate page navigator
// offers. They disagree on the last entry (50 vs 100); the backend
// accepts limits up to 500, so both sets work end to end.
var (
	GridPageSizes      = []int{15, 30, 50}
	NavigatorPageSizes = []int{15, 30, 100}
)

// Paginator is the derived pagination state read from the data source.
type Paginator struct {
	PageIndex int
	PageSize  int
	RowCount  int
}

// PageCount returns the total number of pages.
func (p Paginator) PageCount() int {
	if p.PageSize <= 0 || p.RowCount <= 0 {
		return 0
	}
	return (p.RowCount + p.PageSize - 1) / p.PageSize
}

// CurrentPage returns the 1-based page number shown in the navigator.
func (p Paginator) CurrentPage() int {
	return p.PageIndex + 1
}

// Bridge adapts the data source's pagination state to the page-size
// selector and 1-based page navigator. It owns no state: it reads
// derived values and forwards change requests.
type Bridge struct {
	Source DataSource
}

// Paginator reads the current derived pagination state.
func (b Bridge) Paginator() Paginator {
	pagination := b.Source.Pagination()
	return Paginator{
		PageIndex: pagination.PageIndex,
		PageSize:  pagination.PageSize,
		RowCount:  b.Source.RowCount(),
	}
}

// SetPageSize requests a new page size. The resulting page index is
// whatever the source decides; the bridge does not recompute it.
func (b Bridge) SetPageSize(size int) error {
	pagination := b.Source.Pagination()
	pagination.PageSize = size
	return b.Source.SetPagination(pagination)
}

// GoToPage requests the 1-based page number from the navigator.
func (b Bridge) GoToPage(page int) error {
	pagination := b.Source.Pagination()
	pagination.PageIndex = page - 1
	return b.Source.SetPagination(pagination)
}
