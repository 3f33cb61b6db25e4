package dto

import (
	"sort"
	"strings"

	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/model"
)

type SortRequest struct {
	Field    string `json:"field" binding:"required"`
	Ordering string `json:"ordering" binding:"omitempty,oneof=ASC DESC asc desc"`
}

// CriteriaRequest is the wire form of a criteria object. Filter values are
// coerced to the filter's kind; a null value clears a default filter.
type CriteriaRequest struct {
	Filters         map[string]any `json:"filters"`
	Fetch           []string       `json:"fetch"`
	Sort            []SortRequest  `json:"sort" binding:"dive"`
	PageNumber      int            `json:"page_number" binding:"gte=0"`
	PageSize        int            `json:"page_size" binding:"gte=0"`
	Strict          bool           `json:"strict"`
	CaseSensitive   bool           `json:"case_sensitive"`
	FiltersOptional bool           `json:"filters_optional"`
	Restriction     string         `json:"restriction" binding:"omitempty,oneof=NONE COUNT_ONLY COLLECTION_ONLY"`
}

// FindRequest carries the criteria of every findXxxByCriteria call.
type FindRequest struct {
	Criteria CriteriaRequest `json:"criteria"`
}

// ApplyTo copies the request onto c. A zero page size selects the default
// page size and sizes above maxPageSize are clamped.
func (r *CriteriaRequest) ApplyTo(c criteria.Criteria, maxPageSize int) error {
	if r == nil {
		return nil
	}

	names := make([]string, 0, len(r.Filters))
	for name := range r.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.SetFilter(name, r.Filters[name]); err != nil {
			return err
		}
	}

	for _, name := range r.Fetch {
		if err := c.SetFetch(name, true); err != nil {
			return err
		}
	}

	for _, s := range r.Sort {
		ordering := model.PageOrdering(strings.ToUpper(s.Ordering))
		if ordering == "" {
			ordering = model.PageOrderingASC
		}
		if err := c.AddSortField(s.Field, ordering); err != nil {
			return err
		}
	}

	c.SetPaging(r.PageNumber, pageSize(r.PageSize, maxPageSize))
	c.SetStrict(r.Strict)
	c.SetCaseSensitive(r.CaseSensitive)
	c.SetFiltersOptional(r.FiltersOptional)

	restriction, err := criteria.ParseRestriction(r.Restriction)
	if err != nil {
		return err
	}
	c.SetRestriction(restriction)
	return nil
}

func pageSize(requested, maxPageSize int) int {
	if maxPageSize <= 0 {
		maxPageSize = constants.MaxPageSize
	}
	switch {
	case requested <= 0:
		return min(constants.DefaultPageSize, maxPageSize)
	case requested > maxPageSize:
		return maxPageSize
	default:
		return requested
	}
}

// PageListResponse is one page of results as sent to RPC clients.
type PageListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalSize  int64 `json:"total_size"`
	Unbounded  bool  `json:"unbounded"`
	PageNumber int   `json:"page_number"`
	PageSize   int   `json:"page_size"`
}

// MapPageList converts the items of a page, keeping its paging data.
func MapPageList[T, R any](page *model.PageList[T], convert func(T) R) *PageListResponse[R] {
	items := make([]R, len(page.Items))
	for i, item := range page.Items {
		items[i] = convert(item)
	}
	return &PageListResponse[R]{
		Items:      items,
		TotalSize:  page.TotalSize,
		Unbounded:  page.Unbounded,
		PageNumber: page.PageControl.PageNumber,
		PageSize:   page.PageControl.PageSize,
	}
}
