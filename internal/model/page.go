package model

import "github.com/rhq-project/rhq-coregui/internal/constants"

// PageOrdering is the direction of a sort field.
type PageOrdering string

const (
	PageOrderingASC  PageOrdering = "ASC"
	PageOrderingDESC PageOrdering = "DESC"
)

// UnlimitedPageSize disables paging.
const UnlimitedPageSize = constants.UnlimitedPageSize

// OrderingField is one sort directive of a page request.
type OrderingField struct {
	Field    string       `json:"field"`
	Ordering PageOrdering `json:"ordering"`
}

// PageControl selects a page of a result set. Page numbers start at zero.
type PageControl struct {
	PageNumber     int             `json:"page_number"`
	PageSize       int             `json:"page_size"`
	OrderingFields []OrderingField `json:"ordering_fields,omitempty"`
}

// NewPageControl returns a page control for the given page.
func NewPageControl(pageNumber, pageSize int) PageControl {
	return PageControl{PageNumber: pageNumber, PageSize: pageSize}
}

// UnlimitedPageControl returns a page control that selects every row.
func UnlimitedPageControl() PageControl {
	return PageControl{PageSize: UnlimitedPageSize}
}

func (pc PageControl) IsUnlimited() bool {
	return pc.PageSize == UnlimitedPageSize
}

// StartRow is the zero based offset of the first row of the page.
func (pc PageControl) StartRow() int {
	if pc.IsUnlimited() || pc.PageNumber <= 0 {
		return 0
	}
	return pc.PageNumber * pc.PageSize
}

// PageList is one page of results plus the size of the whole result set.
// Unbounded lists carry no total; TotalSize is then the number of items.
type PageList[T any] struct {
	Items       []T         `json:"items"`
	TotalSize   int64       `json:"total_size"`
	Unbounded   bool        `json:"unbounded"`
	PageControl PageControl `json:"page_control"`
}

// NewPageList builds a bounded page.
func NewPageList[T any](items []T, total int64, pc PageControl) *PageList[T] {
	if items == nil {
		items = []T{}
	}
	return &PageList[T]{Items: items, TotalSize: total, PageControl: pc}
}

// NewUnboundedPageList builds a page without a known total.
func NewUnboundedPageList[T any](items []T, pc PageControl) *PageList[T] {
	if items == nil {
		items = []T{}
	}
	return &PageList[T]{Items: items, TotalSize: int64(len(items)), Unbounded: true, PageControl: pc}
}
