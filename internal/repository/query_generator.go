package repository

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"gorm.io/gorm"
)

const resourceAuthFragment = "%s IN (SELECT rgm.resource_id FROM rhq_resource_group_members rgm" +
	" JOIN rhq_role_resource_group_map rrg ON rrg.resource_group_id = rgm.resource_group_id" +
	" JOIN rhq_subject_role_map sr ON sr.role_id = rrg.role_id" +
	" WHERE sr.subject_id = ?%s)"

const permissionFragment = " AND EXISTS (SELECT 1 FROM rhq_permission rp WHERE rp.role_id = rrg.role_id AND rp.operation = ?)"

const groupAuthFragment = "%s IN (SELECT rrg.resource_group_id FROM rhq_role_resource_group_map rrg" +
	" JOIN rhq_subject_role_map sr ON sr.role_id = rrg.role_id" +
	" WHERE sr.subject_id = ?)"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// lowerColumn matches the case folding of a plain column inside an override
// fragment.
var lowerColumn = regexp.MustCompile(`LOWER\(([\w.]+)\)`)

// QueryGenerator translates a criteria into GORM scopes. The generated
// queries never interpolate filter values; every value is bound.
type QueryGenerator struct {
	criteria  criteria.Criteria
	schema    *criteria.Schema
	subjectID int
}

func NewQueryGenerator(c criteria.Criteria) *QueryGenerator {
	return &QueryGenerator{criteria: c, schema: c.Schema()}
}

// AuthorizeFor limits results to entities the subject can see through its
// roles. A zero subject id disables the restriction.
func (g *QueryGenerator) AuthorizeFor(subjectID int) *QueryGenerator {
	g.subjectID = subjectID
	return g
}

// condition is one bound SQL fragment.
type condition struct {
	sql  string
	args []any
}

func (g *QueryGenerator) filterConditions() []condition {
	conditions := make([]condition, 0, 8)
	for _, f := range g.criteria.FilterFields() {
		if f.Def == nil {
			continue
		}
		if fragment, ok := g.schema.FilterOverride(f.Name); ok {
			if cond, ok := g.overrideCondition(f, fragment); ok {
				conditions = append(conditions, cond)
			}
			continue
		}
		conditions = append(conditions, g.columnCondition(f))
	}
	return conditions
}

func (g *QueryGenerator) overrideCondition(f criteria.Filter, fragment string) (condition, bool) {
	placeholders := strings.Count(fragment, "?")
	if placeholders == 0 {
		on, _ := f.Value.(bool)
		return condition{sql: fragment}, on
	}

	if provider, ok := f.Value.(criteria.ArgsProvider); ok {
		return condition{sql: fragment, args: provider.QueryArgs()}, true
	}

	value := f.Value
	if s, ok := value.(string); ok && f.Def.Kind.IsText() {
		if g.criteria.CaseSensitive() {
			fragment = lowerColumn.ReplaceAllString(fragment, "$1")
		} else {
			s = strings.ToLower(s)
		}
		value = g.likeValue(s)
	}

	args := make([]any, placeholders)
	for i := range args {
		args[i] = value
	}
	return condition{sql: fragment, args: args}, true
}

func (g *QueryGenerator) columnCondition(f criteria.Filter) condition {
	column := g.schema.FilterColumn(f.Name)

	if f.Def.Kind.IsList() {
		return condition{sql: column + " IN ?", args: []any{f.Value}}
	}

	s, ok := f.Value.(string)
	if !ok || f.Def.Kind != criteria.KindString {
		return condition{sql: column + " = ?", args: []any{f.Value}}
	}

	switch {
	case g.criteria.Strict() && g.criteria.CaseSensitive():
		return condition{sql: column + " = ?", args: []any{s}}
	case g.criteria.Strict():
		return condition{sql: "LOWER(" + column + ") = LOWER(?)", args: []any{s}}
	case g.criteria.CaseSensitive():
		return condition{sql: column + " LIKE ?", args: []any{g.likeValue(s)}}
	default:
		return condition{sql: "LOWER(" + column + ") LIKE LOWER(?)", args: []any{g.likeValue(s)}}
	}
}

// likeValue escapes LIKE wildcards and wraps the value in % unless strict.
func (g *QueryGenerator) likeValue(s string) string {
	escaped := likeEscaper.Replace(s)
	if g.criteria.Strict() {
		return escaped
	}
	return "%" + escaped + "%"
}

func (g *QueryGenerator) authConditions() []condition {
	if g.subjectID == 0 {
		return nil
	}

	scope, column := g.schema.Authorization()
	switch scope {
	case criteria.AuthResource:
		conditions := []condition{{
			sql:  fmt.Sprintf(resourceAuthFragment, column, ""),
			args: []any{g.subjectID},
		}}
		for _, perm := range g.criteria.RequiredPermissions() {
			conditions = append(conditions, condition{
				sql:  fmt.Sprintf(resourceAuthFragment, column, permissionFragment),
				args: []any{g.subjectID, string(perm)},
			})
		}
		return conditions
	case criteria.AuthGroup:
		return []condition{{sql: fmt.Sprintf(groupAuthFragment, column), args: []any{g.subjectID}}}
	default:
		return nil
	}
}

// join combines conditions into one parenthesized fragment.
func join(conditions []condition, operator string) condition {
	parts := make([]string, len(conditions))
	var args []any
	for i, c := range conditions {
		parts[i] = "(" + c.sql + ")"
		args = append(args, c.args...)
	}
	return condition{sql: strings.Join(parts, " "+operator+" "), args: args}
}

// Filters applies the filter and authorization conditions.
func (g *QueryGenerator) Filters(db *gorm.DB) *gorm.DB {
	if conditions := g.filterConditions(); len(conditions) > 0 {
		operator := "AND"
		if g.criteria.FiltersOptional() {
			operator = "OR"
		}
		combined := join(conditions, operator)
		db = db.Where(combined.sql, combined.args...)
	}
	if conditions := g.authConditions(); len(conditions) > 0 {
		combined := join(conditions, "AND")
		db = db.Where(combined.sql, combined.args...)
	}
	return db
}

// Fetches preloads the requested associations.
func (g *QueryGenerator) Fetches(db *gorm.DB) *gorm.DB {
	for _, name := range g.criteria.FetchFields() {
		db = db.Preload(association(name))
	}
	return db
}

// Sorts orders by the requested fields, then by id for stable paging.
func (g *QueryGenerator) Sorts(db *gorm.DB) *gorm.DB {
	sortedByID := false
	for _, field := range g.criteria.OrderingFields() {
		expression, ok := g.schema.SortOverride(field.Field)
		if !ok {
			expression = g.schema.SortColumn(field.Field)
		}
		if expression == "" {
			continue
		}
		if field.Field == "id" {
			sortedByID = true
		}
		db = db.Order(expression + " " + string(orderingOf(field.Ordering)))
	}
	if g.criteria.SortsByID() && !sortedByID {
		db = db.Order(g.schema.Table() + ".id ASC")
	}
	return db
}

// Page applies LIMIT and OFFSET unless paging is unlimited.
func (g *QueryGenerator) Page(db *gorm.DB) *gorm.DB {
	pc := g.pageControl()
	if pc.IsUnlimited() {
		return db
	}
	return db.Limit(pc.PageSize).Offset(pc.StartRow())
}

func (g *QueryGenerator) pageControl() model.PageControl {
	pc := g.criteria.PageControl()
	if !pc.IsUnlimited() && pc.PageSize <= 0 {
		pc.PageSize = constants.DefaultPageSize
	}
	return pc
}

// CountQuery returns the query counting every match.
func (g *QueryGenerator) CountQuery(db *gorm.DB) *gorm.DB {
	return g.Filters(db.Model(g.schema.Model()))
}

// Query returns the query selecting one page of matches.
func (g *QueryGenerator) Query(db *gorm.DB) *gorm.DB {
	return g.Page(g.Sorts(g.Fetches(g.Filters(db.Model(g.schema.Model())))))
}

func orderingOf(o model.PageOrdering) model.PageOrdering {
	if o == model.PageOrderingDESC {
		return model.PageOrderingDESC
	}
	return model.PageOrderingASC
}

// association maps a fetch name to the GORM association field.
func association(fetch string) string {
	if fetch == "" {
		return fetch
	}
	return strings.ToUpper(fetch[:1]) + fetch[1:]
}
