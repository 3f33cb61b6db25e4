package repository

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})
	return db, mock
}

// pageSQL renders the page query of a criteria with its values inlined.
func pageSQL[T any](t *testing.T, g *QueryGenerator) string {
	t.Helper()
	db, _ := newMockDB(t)
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var items []T
		return g.Query(tx).Find(&items)
	})
}

func TestStringFiltersMatchSubstringsIgnoringCase(t *testing.T) {
	c := criteria.NewResourceCriteria()
	c.AddFilterName("Web")

	sql := pageSQL[model.Resource](t, NewQueryGenerator(c))

	assert.Contains(t, sql, `LOWER(rhq_resource.name) LIKE LOWER('%Web%')`)
	assert.Contains(t, sql, `rhq_resource.inventory_status = 'COMMITTED'`)
	// filters render in name order
	assert.Contains(t, sql, `(rhq_resource.inventory_status = 'COMMITTED') AND (LOWER(rhq_resource.name) LIKE LOWER('%Web%'))`)
	assert.Contains(t, sql, "ORDER BY rhq_resource.id ASC")
	assert.Contains(t, sql, "LIMIT 200")
}

func TestStrictAndCaseSensitiveFilters(t *testing.T) {
	tests := []struct {
		name          string
		strict        bool
		caseSensitive bool
		want          string
	}{
		{"strict", true, false, `LOWER(rhq_resource.name) = LOWER('Web')`},
		{"strict case sensitive", true, true, `rhq_resource.name = 'Web'`},
		{"case sensitive", false, true, `rhq_resource.name LIKE '%Web%'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := criteria.NewResourceCriteria()
			c.AddFilterName("Web")
			c.SetStrict(tt.strict)
			c.SetCaseSensitive(tt.caseSensitive)

			assert.Contains(t, pageSQL[model.Resource](t, NewQueryGenerator(c)), tt.want)
		})
	}
}

func TestLikeWildcardsAreEscaped(t *testing.T) {
	c := criteria.NewResourceCriteria()
	c.AddFilterName(`50%_off`)

	assert.Contains(t, pageSQL[model.Resource](t, NewQueryGenerator(c)), `LIKE LOWER('%50\%\_off%')`)
}

func TestListFiltersUseIn(t *testing.T) {
	c := criteria.NewResourceCriteria()
	c.AddFilterIDs(4, 8)

	assert.Contains(t, pageSQL[model.Resource](t, NewQueryGenerator(c)), "rhq_resource.id IN (4,8)")
}

func TestFilterOverrides(t *testing.T) {
	t.Run("text values are lowered and wrapped", func(t *testing.T) {
		c := criteria.NewResourceCriteria()
		c.AddFilterResourceTypeName("JBoss AS")

		sql := pageSQL[model.Resource](t, NewQueryGenerator(c))
		assert.Contains(t, sql, `WHERE LOWER(rt.name) LIKE '%jboss as%'`)
		assert.NotContains(t, sql, "rhq_resource.resource_type_name")
	})

	t.Run("case sensitive text keeps case", func(t *testing.T) {
		c := criteria.NewResourceCriteria()
		c.AddFilterPluginName("JBoss")
		c.SetStrict(true)
		c.SetCaseSensitive(true)

		sql := pageSQL[model.Resource](t, NewQueryGenerator(c))
		assert.Contains(t, sql, `WHERE rt.plugin LIKE 'JBoss'`)
		assert.NotContains(t, sql, "LOWER(rt.plugin)")

		c.SetStrict(false)
		assert.Contains(t, pageSQL[model.Resource](t, NewQueryGenerator(c)), `WHERE rt.plugin LIKE '%JBoss%'`)
	})

	t.Run("enum lists", func(t *testing.T) {
		c := criteria.NewResourceCriteria()
		c.AddFilterResourceCategories(model.ResourceCategoryPlatform, model.ResourceCategoryServer)

		assert.Contains(t, pageSQL[model.Resource](t, NewQueryGenerator(c)), `rt.category IN ('PLATFORM','SERVER')`)
	})

	t.Run("interval binds both bounds", func(t *testing.T) {
		c := criteria.NewAvailabilityCriteria()
		require.NoError(t, c.AddFilterInterval(100, 200))

		assert.Contains(t, pageSQL[model.Availability](t, NewQueryGenerator(c)),
			"(rhq_availability.end_time IS NULL OR rhq_availability.end_time >= 100) AND rhq_availability.start_time <= 200")
	})

	t.Run("value bound once per placeholder", func(t *testing.T) {
		c := criteria.NewAvailabilityCriteria()
		require.NoError(t, c.AddFilterInitialAvailability(150))

		assert.Contains(t, pageSQL[model.Availability](t, NewQueryGenerator(c)),
			"rhq_availability.start_time <= 150 AND (rhq_availability.end_time IS NULL OR rhq_availability.end_time > 150)")
	})

	t.Run("flag fragments apply only when set", func(t *testing.T) {
		c := criteria.NewAlertCriteria()
		c.AddFilterUnacknowledgedOnly(true)
		assert.Contains(t, pageSQL[model.Alert](t, NewQueryGenerator(c)), "rhq_alert.acknowledge_time IS NULL")

		c.AddFilterUnacknowledgedOnly(false)
		assert.NotContains(t, pageSQL[model.Alert](t, NewQueryGenerator(c)), "acknowledge_time IS NULL")
	})
}

func TestOptionalFiltersAreJoinedWithOr(t *testing.T) {
	c := criteria.NewResourceCriteria()
	c.AddFilterName("web")
	c.AddFilterResourceKey("key")
	c.SetFiltersOptional(true)

	sql := pageSQL[model.Resource](t, NewQueryGenerator(c).AuthorizeFor(5))

	assert.Contains(t, sql, ") OR (")
	assert.Contains(t, sql, "sr.subject_id = 5")
	assert.Less(t, strings.Index(sql, ") OR ("), strings.Index(sql, "sr.subject_id = 5"))
}

func TestAuthorizationFragments(t *testing.T) {
	t.Run("unauthorized queries see everything", func(t *testing.T) {
		c := criteria.NewResourceCriteria()
		assert.NotContains(t, pageSQL[model.Resource](t, NewQueryGenerator(c)), "rhq_subject_role_map")
	})

	t.Run("resources through role groups", func(t *testing.T) {
		c := criteria.NewResourceCriteria()
		c.AddRequiredPermissions(model.PermissionModifyResource, model.PermissionControl)

		sql := pageSQL[model.Resource](t, NewQueryGenerator(c).AuthorizeFor(12))

		assert.Contains(t, sql, "rhq_resource.id IN (SELECT rgm.resource_id FROM rhq_resource_group_members rgm")
		assert.Equal(t, 3, strings.Count(sql, "sr.subject_id = 12"))
		assert.Contains(t, sql, "rp.operation = 'MODIFY_RESOURCE'")
		assert.Contains(t, sql, "rp.operation = 'CONTROL'")
	})

	t.Run("groups through role grants", func(t *testing.T) {
		c := criteria.NewResourceGroupCriteria()

		sql := pageSQL[model.ResourceGroup](t, NewQueryGenerator(c).AuthorizeFor(3))
		assert.Contains(t, sql, "rhq_resource_group.id IN (SELECT rrg.resource_group_id FROM rhq_role_resource_group_map rrg")
	})

	t.Run("entities without scope are not restricted", func(t *testing.T) {
		c := criteria.NewSubjectCriteria()
		assert.NotContains(t, pageSQL[model.Subject](t, NewQueryGenerator(c).AuthorizeFor(3)), "rhq_subject_role_map sr")
	})
}

func TestSorts(t *testing.T) {
	c := criteria.NewResourceCriteria()
	c.AddSortName(model.PageOrderingDESC)
	c.AddSortResourceTypeName(model.PageOrderingASC)

	sql := pageSQL[model.Resource](t, NewQueryGenerator(c))

	name := strings.Index(sql, "rhq_resource.name DESC")
	typeName := strings.Index(sql, "(SELECT rt.name FROM rhq_resource_type rt WHERE rt.id = rhq_resource.resource_type_id) ASC")
	id := strings.Index(sql, "rhq_resource.id ASC")
	require.True(t, name > 0 && typeName > 0 && id > 0, sql)
	assert.Less(t, name, typeName)
	assert.Less(t, typeName, id)

	c.SetSortByID(false)
	assert.NotContains(t, pageSQL[model.Resource](t, NewQueryGenerator(c)), "rhq_resource.id ASC")
}

func TestPaging(t *testing.T) {
	c := criteria.NewPluginCriteria()
	c.SetPaging(2, 50)
	assert.Contains(t, pageSQL[model.Plugin](t, NewQueryGenerator(c)), "LIMIT 50 OFFSET 100")

	c.ClearPaging()
	assert.NotContains(t, pageSQL[model.Plugin](t, NewQueryGenerator(c)), "LIMIT")

	c.SetPaging(0, 0)
	assert.Contains(t, pageSQL[model.Plugin](t, NewQueryGenerator(c)), "LIMIT 200")
}

func TestFetchesPreloadAssociations(t *testing.T) {
	db, _ := newMockDB(t)

	c := criteria.NewResourceCriteria()
	c.FetchResourceType(true)
	c.FetchExplicitGroups(true)

	tx := NewQueryGenerator(c).Fetches(db.Session(&gorm.Session{DryRun: true}))

	assert.Contains(t, tx.Statement.Preloads, "ResourceType")
	assert.Contains(t, tx.Statement.Preloads, "ExplicitGroups")
	assert.Len(t, tx.Statement.Preloads, 2)
}
