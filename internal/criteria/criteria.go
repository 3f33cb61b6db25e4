// Package criteria holds the filter, fetch and sort settings passed to
// criteria finders. A criteria is built per request, populated by the caller,
// handed to one finder and then discarded.
package criteria

import (
	"strings"

	"github.com/rhq-project/rhq-coregui/internal/constants"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
)

// Restriction limits what a finder computes.
type Restriction string

const (
	RestrictionNone           Restriction = ""
	RestrictionCountOnly      Restriction = "COUNT_ONLY"
	RestrictionCollectionOnly Restriction = "COLLECTION_ONLY"
)

// ParseRestriction accepts an empty string, NONE, COUNT_ONLY or COLLECTION_ONLY.
func ParseRestriction(s string) (Restriction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return RestrictionNone, nil
	case string(RestrictionCountOnly):
		return RestrictionCountOnly, nil
	case string(RestrictionCollectionOnly):
		return RestrictionCollectionOnly, nil
	default:
		return RestrictionNone, apperrors.Detail(apperrors.ErrInvalidInput, "unknown restriction %q", s)
	}
}

// Filter is one populated filter.
type Filter struct {
	Name  string
	Value any
	Def   *FilterDef
}

// Criteria is the contract finders and the query generator consume.
type Criteria interface {
	Schema() *Schema

	SetFilter(name string, value any) error
	Filter(name string) (any, bool)
	FilterFields() []Filter

	SetFetch(name string, fetch bool) error
	FetchFields() []string

	AddSortField(name string, ordering model.PageOrdering) error
	OrderingFields() []model.OrderingField

	SetPaging(pageNumber, pageSize int)
	ClearPaging()
	SetPageControl(pc model.PageControl) error
	PageControl() model.PageControl

	Strict() bool
	SetStrict(strict bool)
	CaseSensitive() bool
	SetCaseSensitive(caseSensitive bool)
	FiltersOptional() bool
	SetFiltersOptional(optional bool)
	Restriction() Restriction
	SetRestriction(r Restriction)
	SortsByID() bool
	SetSortByID(sortByID bool)
	RequiredPermissions() []model.Permission
	AddRequiredPermissions(perms ...model.Permission)
}

// Base implements Criteria over a Schema. Entity criteria embed it and add
// typed setters.
type Base struct {
	schema              *Schema
	filters             map[string]any
	fetches             map[string]bool
	sorts               []model.OrderingField
	pageNumber          int
	pageSize            int
	pageControl         *model.PageControl
	strict              bool
	caseSensitive       bool
	filtersOptional     bool
	restriction         Restriction
	requiredPermissions []model.Permission
	sortByID            bool
}

func (b *Base) init(schema *Schema) {
	b.schema = schema
	b.filters = make(map[string]any)
	b.fetches = make(map[string]bool)
	b.pageNumber = constants.DefaultPageNumber
	b.pageSize = constants.DefaultPageSize
	b.sortByID = true
}

func (b *Base) Schema() *Schema { return b.schema }

// SetFilter sets a filter by name from a loosely typed value. A nil value
// clears the filter.
func (b *Base) SetFilter(name string, value any) error {
	def, ok := b.schema.FilterDef(name)
	if !ok {
		return apperrors.Detail(apperrors.ErrUnknownFilter, "unknown filter %q for %s criteria", name, b.schema.entity)
	}
	if value == nil {
		delete(b.filters, name)
		return nil
	}

	v, err := coerce(def, value)
	if err != nil {
		return apperrors.WrapError(
			apperrors.Detail(apperrors.ErrInvalidFilterValue, "invalid value for filter %q (%s expected)", name, def.Kind),
			err,
		)
	}
	return b.put(def, v)
}

// put stores a value after checking mutually exclusive filters.
func (b *Base) put(def *FilterDef, value any) error {
	for _, other := range def.Excludes {
		if _, set := b.filters[other]; set {
			return apperrors.Detail(apperrors.ErrMutuallyExclusiveFilters,
				"filter %q cannot be combined with filter %q", def.Name, other)
		}
	}
	b.filters[def.Name] = value
	return nil
}

func (b *Base) set(name string, value any) {
	b.filters[name] = value
}

func (b *Base) Filter(name string) (any, bool) {
	v, ok := b.filters[name]
	return v, ok
}

// FilterFields returns the populated filters ordered by name.
func (b *Base) FilterFields() []Filter {
	names := sortedKeys(b.filters)
	fields := make([]Filter, 0, len(names))
	for _, name := range names {
		def, _ := b.schema.FilterDef(name)
		fields = append(fields, Filter{Name: name, Value: b.filters[name], Def: def})
	}
	return fields
}

func (b *Base) SetFetch(name string, fetch bool) error {
	if !b.schema.HasFetch(name) {
		return apperrors.Detail(apperrors.ErrUnknownFetch, "unknown fetch %q for %s criteria", name, b.schema.entity)
	}
	b.fetch(name, fetch)
	return nil
}

func (b *Base) fetch(name string, fetch bool) {
	if fetch {
		b.fetches[name] = true
	} else {
		delete(b.fetches, name)
	}
}

func (b *Base) FetchFields() []string { return sortedKeys(b.fetches) }

// AddSortField appends a sort. Adding a field again changes its ordering but
// keeps its position.
func (b *Base) AddSortField(name string, ordering model.PageOrdering) error {
	if !b.schema.HasSort(name) {
		return apperrors.Detail(apperrors.ErrUnknownSortField, "unknown sort field %q for %s criteria", name, b.schema.entity)
	}
	o, err := normalizeOrdering(ordering)
	if err != nil {
		return err
	}
	b.sortBy(name, o)
	return nil
}

func (b *Base) sortBy(name string, ordering model.PageOrdering) {
	if ordering != model.PageOrderingDESC {
		ordering = model.PageOrderingASC
	}
	for i := range b.sorts {
		if b.sorts[i].Field == name {
			b.sorts[i].Ordering = ordering
			return
		}
	}
	b.sorts = append(b.sorts, model.OrderingField{Field: name, Ordering: ordering})
}

// OrderingFields returns the effective sorts. A page control override wins.
func (b *Base) OrderingFields() []model.OrderingField {
	if b.pageControl != nil {
		return append([]model.OrderingField(nil), b.pageControl.OrderingFields...)
	}
	return append([]model.OrderingField(nil), b.sorts...)
}

func (b *Base) SetPaging(pageNumber, pageSize int) {
	if pageNumber < 0 {
		pageNumber = 0
	}
	b.pageNumber = pageNumber
	b.pageSize = pageSize
}

// ClearPaging selects every row.
func (b *Base) ClearPaging() {
	b.pageNumber = 0
	b.pageSize = model.UnlimitedPageSize
	b.pageControl = nil
}

// SetPageControl overrides paging and sorting at once.
func (b *Base) SetPageControl(pc model.PageControl) error {
	pc.OrderingFields = append([]model.OrderingField(nil), pc.OrderingFields...)
	for i, field := range pc.OrderingFields {
		if !b.schema.HasSort(field.Field) {
			return apperrors.Detail(apperrors.ErrUnknownSortField, "unknown sort field %q for %s criteria", field.Field, b.schema.entity)
		}
		o, err := normalizeOrdering(field.Ordering)
		if err != nil {
			return err
		}
		pc.OrderingFields[i].Ordering = o
	}
	b.pageControl = &pc
	return nil
}

func (b *Base) PageControl() model.PageControl {
	if b.pageControl != nil {
		pc := *b.pageControl
		pc.OrderingFields = append([]model.OrderingField(nil), b.pageControl.OrderingFields...)
		return pc
	}
	return model.PageControl{
		PageNumber:     b.pageNumber,
		PageSize:       b.pageSize,
		OrderingFields: b.OrderingFields(),
	}
}

func (b *Base) Strict() bool { return b.strict }

func (b *Base) SetStrict(strict bool) { b.strict = strict }

func (b *Base) CaseSensitive() bool { return b.caseSensitive }

func (b *Base) SetCaseSensitive(caseSensitive bool) { b.caseSensitive = caseSensitive }

// FiltersOptional joins filters with OR instead of AND.
func (b *Base) FiltersOptional() bool { return b.filtersOptional }

func (b *Base) SetFiltersOptional(optional bool) { b.filtersOptional = optional }

func (b *Base) Restriction() Restriction { return b.restriction }

func (b *Base) SetRestriction(r Restriction) { b.restriction = r }

// SortsByID reports whether id is appended as the last sort for stable paging.
func (b *Base) SortsByID() bool { return b.sortByID }

func (b *Base) SetSortByID(sortByID bool) { b.sortByID = sortByID }

func (b *Base) RequiredPermissions() []model.Permission {
	return append([]model.Permission(nil), b.requiredPermissions...)
}

// AddRequiredPermissions narrows authorized results to entities the subject
// holds every listed resource permission on.
func (b *Base) AddRequiredPermissions(perms ...model.Permission) {
	for _, p := range perms {
		if !containsPermission(b.requiredPermissions, p) {
			b.requiredPermissions = append(b.requiredPermissions, p)
		}
	}
}

func containsPermission(perms []model.Permission, p model.Permission) bool {
	for _, existing := range perms {
		if existing == p {
			return true
		}
	}
	return false
}

func normalizeOrdering(ordering model.PageOrdering) (model.PageOrdering, error) {
	switch model.PageOrdering(strings.ToUpper(string(ordering))) {
	case "", model.PageOrderingASC:
		return model.PageOrderingASC, nil
	case model.PageOrderingDESC:
		return model.PageOrderingDESC, nil
	default:
		return "", apperrors.Detail(apperrors.ErrInvalidInput, "unknown ordering %q", ordering)
	}
}
