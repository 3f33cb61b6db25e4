package dto

import (
	"encoding/json"
	"testing"

	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/internal/criteria"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeCriteria(t *testing.T, raw string) *CriteriaRequest {
	t.Helper()
	var req CriteriaRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	return &req
}

func TestApplyToCopiesWireCriteria(t *testing.T) {
	req := decodeCriteria(t, `{
		"filters": {"severities": ["error", "FATAL"], "resourceId": 5, "detail": "disk"},
		"fetch": ["resource"],
		"sort": [{"field": "severity", "ordering": "desc"}, {"field": "timestamp"}],
		"page_number": 2,
		"page_size": 50,
		"strict": true,
		"filters_optional": true,
		"restriction": "COLLECTION_ONLY"
	}`)

	c := criteria.NewEventCriteria()
	require.NoError(t, req.ApplyTo(c, 0))

	severities, ok := c.Filter("severities")
	require.True(t, ok)
	assert.Equal(t, []string{"ERROR", "FATAL"}, severities)

	resourceID, ok := c.Filter("resourceId")
	require.True(t, ok)
	assert.Equal(t, 5, resourceID)

	assert.Equal(t, []string{"resource"}, c.FetchFields())
	assert.Equal(t, []model.OrderingField{
		{Field: "severity", Ordering: model.PageOrderingDESC},
		{Field: "timestamp", Ordering: model.PageOrderingASC},
	}, c.OrderingFields())

	pc := c.PageControl()
	assert.Equal(t, 2, pc.PageNumber)
	assert.Equal(t, 50, pc.PageSize)
	assert.True(t, c.Strict())
	assert.False(t, c.CaseSensitive())
	assert.True(t, c.FiltersOptional())
	assert.Equal(t, criteria.RestrictionCollectionOnly, c.Restriction())
}

func TestApplyToPageSize(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		max       int
		want      int
	}{
		{"zero selects default", 0, 0, constants.DefaultPageSize},
		{"within limit", 75, 0, 75},
		{"clamped to configured max", 500, 300, 300},
		{"clamped to built in max", 5000, 0, constants.MaxPageSize},
		{"default never exceeds max", 0, 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := criteria.NewEventCriteria()
			req := &CriteriaRequest{PageSize: tt.requested}
			require.NoError(t, req.ApplyTo(c, tt.max))
			assert.Equal(t, tt.want, c.PageControl().PageSize)
		})
	}
}

func TestApplyToRejectsUnknownNames(t *testing.T) {
	tests := []struct {
		name string
		req  CriteriaRequest
		code string
	}{
		{"filter", CriteriaRequest{Filters: map[string]any{"bogus": 1}}, apperrors.ErrUnknownFilter.Code},
		{"fetch", CriteriaRequest{Fetch: []string{"bogus"}}, apperrors.ErrUnknownFetch.Code},
		{"sort", CriteriaRequest{Sort: []SortRequest{{Field: "bogus"}}}, apperrors.ErrUnknownSortField.Code},
		{"filter value", CriteriaRequest{Filters: map[string]any{"severities": "LOUD"}}, apperrors.ErrInvalidFilterValue.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.ApplyTo(criteria.NewEventCriteria(), 0)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}
}

func TestApplyToNilRequestKeepsDefaults(t *testing.T) {
	c := criteria.NewEventCriteria()
	before := c.PageControl()

	var req *CriteriaRequest
	require.NoError(t, req.ApplyTo(c, 0))
	assert.Equal(t, before, c.PageControl())
	assert.Empty(t, c.FilterFields())
}

func TestMapPageList(t *testing.T) {
	page := &model.PageList[model.Event]{
		Items:       []model.Event{{ID: 1, Severity: model.EventSeverityWarn}, {ID: 2, Severity: model.EventSeverityError}},
		TotalSize:   12,
		PageControl: model.PageControl{PageNumber: 1, PageSize: 2},
	}

	resp := MapPageList(page, func(e model.Event) int { return e.ID })
	assert.Equal(t, []int{1, 2}, resp.Items)
	assert.Equal(t, int64(12), resp.TotalSize)
	assert.Equal(t, 1, resp.PageNumber)
	assert.Equal(t, 2, resp.PageSize)
	assert.False(t, resp.Unbounded)
}
