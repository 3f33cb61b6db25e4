package criteria

import (
	"sort"

	"github.com/rhq-project/rhq-coregui/internal/constants"
)

// FilterKind is the value type a filter accepts.
type FilterKind int

const (
	KindString FilterKind = iota
	KindInt
	KindInt64
	KindBool
	KindIntList
	KindStringList
	KindEnum
	KindEnumList
	KindInterval
)

func (k FilterKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	case KindIntList:
		return "int list"
	case KindStringList:
		return "string list"
	case KindEnum:
		return "enum"
	case KindEnumList:
		return "enum list"
	case KindInterval:
		return "interval"
	default:
		return "unknown"
	}
}

// IsList reports whether values of the kind bind as a collection.
func (k FilterKind) IsList() bool {
	return k == KindIntList || k == KindStringList || k == KindEnumList
}

// IsText reports whether values of the kind are matched as free text.
func (k FilterKind) IsText() bool {
	return k == KindString || k == KindStringList
}

// AuthScope selects the authorization path the query generator adds for
// subjects that cannot see the whole inventory.
type AuthScope int

const (
	AuthNone AuthScope = iota
	AuthResource
	AuthGroup
)

// FilterDef declares one filter of a criteria type.
type FilterDef struct {
	Name     string
	Kind     FilterKind
	Column   string
	Enum     []string
	Excludes []string
}

// Schema is the immutable declaration shared by every criteria of one type:
// its filters, fetches, sorts and the override fragments that replace the
// default column mapping.
type Schema struct {
	entity          string
	table           string
	model           any
	filters         map[string]*FilterDef
	fetches         map[string]bool
	sorts           map[string]string
	filterOverrides map[string]string
	sortOverrides   map[string]string
	authScope       AuthScope
	authColumn      string
	last            string
}

func newSchema(entity, table string, model any) *Schema {
	s := &Schema{
		entity:          entity,
		table:           table,
		model:           model,
		filters:         make(map[string]*FilterDef),
		fetches:         make(map[string]bool),
		sorts:           make(map[string]string),
		filterOverrides: make(map[string]string),
		sortOverrides:   make(map[string]string),
	}
	s.sorts["id"] = "id"
	return s
}

func (s *Schema) filter(name string, kind FilterKind) *Schema {
	return s.filterOn(name, kind, constants.ToSnakeCase(name))
}

func (s *Schema) filterOn(name string, kind FilterKind, column string) *Schema {
	s.filters[name] = &FilterDef{Name: name, Kind: kind, Column: column}
	s.last = name
	return s
}

// override declares a filter served by a query fragment. Every "?" in the
// fragment binds the filter value.
func (s *Schema) override(name string, kind FilterKind, fragment string) *Schema {
	s.filters[name] = &FilterDef{Name: name, Kind: kind}
	s.filterOverrides[name] = fragment
	s.last = name
	return s
}

// values restricts the most recently declared filter to an enumeration.
func (s *Schema) values(values ...string) *Schema {
	if def, ok := s.filters[s.last]; ok {
		def.Enum = values
	}
	return s
}

func (s *Schema) exclusive(a, b string) *Schema {
	s.filters[a].Excludes = append(s.filters[a].Excludes, b)
	s.filters[b].Excludes = append(s.filters[b].Excludes, a)
	return s
}

func (s *Schema) fetch(names ...string) *Schema {
	for _, name := range names {
		s.fetches[name] = true
	}
	return s
}

func (s *Schema) sort(names ...string) *Schema {
	for _, name := range names {
		s.sorts[name] = constants.ToSnakeCase(name)
	}
	return s
}

func (s *Schema) sortOn(name, column string) *Schema {
	s.sorts[name] = column
	return s
}

func (s *Schema) sortOverride(name, expression string) *Schema {
	s.sorts[name] = ""
	s.sortOverrides[name] = expression
	return s
}

func (s *Schema) authorize(scope AuthScope, column string) *Schema {
	s.authScope = scope
	s.authColumn = column
	return s
}

func (s *Schema) Entity() string { return s.entity }

func (s *Schema) Table() string { return s.table }

// Model returns a pointer to a zero value of the entity.
func (s *Schema) Model() any { return s.model }

func (s *Schema) FilterDef(name string) (*FilterDef, bool) {
	def, ok := s.filters[name]
	return def, ok
}

func (s *Schema) HasFetch(name string) bool { return s.fetches[name] }

func (s *Schema) HasSort(name string) bool {
	_, ok := s.sorts[name]
	return ok
}

func (s *Schema) FilterOverride(name string) (string, bool) {
	fragment, ok := s.filterOverrides[name]
	return fragment, ok
}

func (s *Schema) SortOverride(name string) (string, bool) {
	expression, ok := s.sortOverrides[name]
	return expression, ok
}

// FilterColumn returns the table qualified default column of a filter.
func (s *Schema) FilterColumn(name string) string {
	if def, ok := s.filters[name]; ok && def.Column != "" {
		return s.table + "." + def.Column
	}
	return ""
}

// SortColumn returns the table qualified default column of a sort field.
func (s *Schema) SortColumn(name string) string {
	if column := s.sorts[name]; column != "" {
		return s.table + "." + column
	}
	return ""
}

// Authorization returns the scope and the column holding the guarded id.
func (s *Schema) Authorization() (AuthScope, string) {
	return s.authScope, s.authColumn
}

func (s *Schema) FilterNames() []string { return sortedKeys(s.filters) }

func (s *Schema) FetchNames() []string { return sortedKeys(s.fetches) }

func (s *Schema) SortNames() []string { return sortedKeys(s.sorts) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
