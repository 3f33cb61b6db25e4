package service

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/internal/repository"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
)

type OperationManager struct {
	histories OperationHistoryStore
	auth      *AuthorizationManager
}

func NewOperationManager(histories OperationHistoryStore, auth *AuthorizationManager) *OperationManager {
	return &OperationManager{histories: histories, auth: auth}
}

func (m *OperationManager) FindOperationHistoriesByCriteria(ctx context.Context, subject *model.Subject, c *criteria.OperationHistoryCriteria) (*model.PageList[model.OperationHistory], error) {
	ctx = tag(ctx, "FindOperationHistoriesByCriteria")

	scope, err := m.auth.InventoryScope(ctx, subject)
	if err != nil {
		return nil, err
	}
	page, err := m.histories.FindByCriteria(ctx, c, scope)
	if err != nil {
		return nil, storeError(err, "OperationHistory", 0)
	}
	return page, nil
}

// CancelOperationHistory cancels an operation that is still in progress.
func (m *OperationManager) CancelOperationHistory(ctx context.Context, subject *model.Subject, id int) error {
	ctx = tag(ctx, "CancelOperationHistory")

	history, err := m.histories.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "OperationHistory", id)
	}
	if err := m.auth.RequireResource(ctx, subject, model.PermissionControl, history.ResourceID); err != nil {
		return err
	}

	canceled, err := m.histories.Cancel(ctx, id, nowMillis())
	if err != nil {
		return storeError(err, "OperationHistory", id)
	}
	if !canceled {
		return apperrors.Detail(apperrors.ErrInvalidState, "operation %d is not in progress", id)
	}

	logger.InfoWithContext(ctx, "Operation canceled").
		Int("history_id", id).
		String("operation", history.OperationName).
		Log()
	return nil
}

func (m *OperationManager) DeleteOperationHistories(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	ctx = tag(ctx, "DeleteOperationHistories")

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	resourceIDs, err := m.histories.DistinctColumn(ctx, ids, "resource_id")
	if err != nil {
		return 0, storeError(err, "OperationHistory", ids[0])
	}
	if err := m.auth.RequireResource(ctx, subject, model.PermissionControl, resourceIDs...); err != nil {
		return 0, err
	}

	deleted, err := m.histories.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, storeError(err, "OperationHistory", ids[0])
	}
	return deleted, nil
}

type EventManager struct {
	events EventStore
	auth   *AuthorizationManager
}

func NewEventManager(events EventStore, auth *AuthorizationManager) *EventManager {
	return &EventManager{events: events, auth: auth}
}

func (m *EventManager) FindEventsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.EventCriteria) (*model.PageList[model.Event], error) {
	ctx = tag(ctx, "FindEventsByCriteria")

	scope, err := m.auth.InventoryScope(ctx, subject)
	if err != nil {
		return nil, err
	}
	page, err := m.events.FindByCriteria(ctx, c, scope)
	if err != nil {
		return nil, storeError(err, "Event", 0)
	}
	return page, nil
}

func (m *EventManager) DeleteEvents(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	ctx = tag(ctx, "DeleteEvents")

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	resourceIDs, err := m.events.DistinctColumn(ctx, ids, "resource_id")
	if err != nil {
		return 0, storeError(err, "Event", ids[0])
	}
	if err := m.auth.RequireResource(ctx, subject, model.PermissionManageEvents, resourceIDs...); err != nil {
		return 0, err
	}

	deleted, err := m.events.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, storeError(err, "Event", ids[0])
	}
	return deleted, nil
}

// GetEventCountsBySeverity counts the visible events per severity. Every
// severity is present in the result, with zero when nothing matched.
func (m *EventManager) GetEventCountsBySeverity(ctx context.Context, subject *model.Subject, c *criteria.EventCriteria) (map[model.EventSeverity]int64, error) {
	ctx = tag(ctx, "GetEventCountsBySeverity")

	scope, err := m.auth.InventoryScope(ctx, subject)
	if err != nil {
		return nil, err
	}
	counts, err := m.events.CountBySeverity(ctx, c, scope)
	if err != nil {
		return nil, storeError(err, "Event", 0)
	}
	return severityTotals(counts), nil
}

func severityTotals(counts []repository.SeverityCount) map[model.EventSeverity]int64 {
	totals := make(map[model.EventSeverity]int64, len(model.EventSeverityValues()))
	for _, s := range model.EventSeverityValues() {
		totals[model.EventSeverity(s)] = 0
	}
	for _, c := range counts {
		totals[c.Severity] += c.Count
	}
	return totals
}

type PluginManager struct {
	plugins PluginStore
	auth    *AuthorizationManager
}

func NewPluginManager(plugins PluginStore, auth *AuthorizationManager) *PluginManager {
	return &PluginManager{plugins: plugins, auth: auth}
}

func (m *PluginManager) FindPluginsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.PluginCriteria) (*model.PageList[model.Plugin], error) {
	page, err := m.plugins.FindByCriteria(tag(ctx, "FindPluginsByCriteria"), c, 0)
	if err != nil {
		return nil, storeError(err, "Plugin", 0)
	}
	return page, nil
}

func (m *PluginManager) EnablePlugins(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	return m.setEnabled(tag(ctx, "EnablePlugins"), subject, ids, true)
}

func (m *PluginManager) DisablePlugins(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	return m.setEnabled(tag(ctx, "DisablePlugins"), subject, ids, false)
}

func (m *PluginManager) setEnabled(ctx context.Context, subject *model.Subject, ids []int, enabled bool) (int64, error) {
	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSettings); err != nil {
		return 0, err
	}
	ids = uniqueIDs(ids)
	updated, err := m.plugins.UpdateColumns(ctx, ids, map[string]any{"enabled": enabled})
	if err != nil {
		return 0, storeError(err, "Plugin", 0)
	}

	logger.InfoWithContext(ctx, "Plugins updated").
		Ints("plugin_ids", ids).
		Bool("enabled", enabled).
		Int64("updated", updated).
		Log()
	return updated, nil
}
