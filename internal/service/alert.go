package service

import (
	"context"
	"slices"
	"strings"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
)

// AlertDefinitionManager manages alert definitions. Changes need
// MANAGE_ALERTS on the resource a definition belongs to.
type AlertDefinitionManager struct {
	definitions AlertDefinitionStore
	auth        *AuthorizationManager
}

func NewAlertDefinitionManager(definitions AlertDefinitionStore, auth *AuthorizationManager) *AlertDefinitionManager {
	return &AlertDefinitionManager{definitions: definitions, auth: auth}
}

func (m *AlertDefinitionManager) FindAlertDefinitionsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.AlertDefinitionCriteria) (*model.PageList[model.AlertDefinition], error) {
	ctx = tag(ctx, "FindAlertDefinitionsByCriteria")

	scope, err := m.auth.InventoryScope(ctx, subject)
	if err != nil {
		return nil, err
	}
	page, err := m.definitions.FindByCriteria(ctx, c, scope)
	if err != nil {
		return nil, storeError(err, "AlertDefinition", 0)
	}
	return page, nil
}

func (m *AlertDefinitionManager) CreateAlertDefinition(ctx context.Context, subject *model.Subject, def *model.AlertDefinition) (*model.AlertDefinition, error) {
	ctx = tag(ctx, "CreateAlertDefinition")

	if err := m.auth.RequireResource(ctx, subject, model.PermissionManageAlerts, def.ResourceID); err != nil {
		return nil, err
	}
	if err := validateAlertDefinition(def); err != nil {
		return nil, err
	}
	def.ID = 0
	def.Deleted = false

	if err := m.definitions.CreateWithConditions(ctx, def); err != nil {
		return nil, storeError(err, "AlertDefinition", 0)
	}

	logger.InfoWithContext(ctx, "Alert definition created").
		Int("alert_definition_id", def.ID).
		Int("resource_id", def.ResourceID).
		Int("conditions", len(def.Conditions)).
		Log()
	return def, nil
}

// UpdateAlertDefinition replaces the attributes and conditions of a
// definition. The owning resource cannot change.
func (m *AlertDefinitionManager) UpdateAlertDefinition(ctx context.Context, subject *model.Subject, update *model.AlertDefinition) (*model.AlertDefinition, error) {
	ctx = tag(ctx, "UpdateAlertDefinition")

	existing, err := m.definitions.GetByID(ctx, update.ID)
	if err != nil {
		return nil, storeError(err, "AlertDefinition", update.ID)
	}
	if err := m.auth.RequireResource(ctx, subject, model.PermissionManageAlerts, existing.ResourceID); err != nil {
		return nil, err
	}
	if existing.Deleted {
		return nil, apperrors.Detail(apperrors.ErrInvalidState, "alert definition %d was removed", existing.ID)
	}
	if err := validateAlertDefinition(update); err != nil {
		return nil, err
	}

	existing.Name = update.Name
	existing.Description = update.Description
	existing.Priority = update.Priority
	existing.Enabled = update.Enabled
	existing.ConditionExpression = update.ConditionExpression
	existing.WillRecover = update.WillRecover
	existing.RecoveryID = update.RecoveryID
	existing.Conditions = update.Conditions

	if err := m.definitions.UpdateWithConditions(ctx, existing); err != nil {
		return nil, storeError(err, "AlertDefinition", existing.ID)
	}
	return existing, nil
}

func (m *AlertDefinitionManager) EnableAlertDefinitions(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	return m.setColumns(tag(ctx, "EnableAlertDefinitions"), subject, ids, map[string]any{"enabled": true})
}

func (m *AlertDefinitionManager) DisableAlertDefinitions(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	return m.setColumns(tag(ctx, "DisableAlertDefinitions"), subject, ids, map[string]any{"enabled": false})
}

// RemoveAlertDefinitions soft deletes definitions; their alert history stays.
func (m *AlertDefinitionManager) RemoveAlertDefinitions(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	return m.setColumns(tag(ctx, "RemoveAlertDefinitions"), subject, ids, map[string]any{"deleted": true, "enabled": false})
}

func (m *AlertDefinitionManager) setColumns(ctx context.Context, subject *model.Subject, ids []int, values map[string]any) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	resourceIDs, err := m.definitions.DistinctColumn(ctx, ids, "resource_id")
	if err != nil {
		return 0, storeError(err, "AlertDefinition", ids[0])
	}
	if err := m.auth.RequireResource(ctx, subject, model.PermissionManageAlerts, resourceIDs...); err != nil {
		return 0, err
	}

	updated, err := m.definitions.UpdateColumns(ctx, ids, values)
	if err != nil {
		return 0, storeError(err, "AlertDefinition", ids[0])
	}

	logger.InfoWithContext(ctx, "Alert definitions updated").
		Ints("alert_definition_ids", ids).
		Any("values", values).
		Int64("updated", updated).
		Log()
	return updated, nil
}

func validateAlertDefinition(def *model.AlertDefinition) error {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return apperrors.Detail(apperrors.ErrInvalidInput, "alert definition name is required")
	}
	if !slices.Contains(model.AlertPriorityValues(), string(def.Priority)) {
		return apperrors.Detail(apperrors.ErrInvalidInput, "unknown alert priority %q", def.Priority)
	}
	if def.ConditionExpression == "" {
		def.ConditionExpression = model.BooleanExpressionAny
	}
	if !slices.Contains(model.BooleanExpressionValues(), string(def.ConditionExpression)) {
		return apperrors.Detail(apperrors.ErrInvalidInput, "unknown condition expression %q", def.ConditionExpression)
	}
	for _, cond := range def.Conditions {
		if !slices.Contains(model.AlertConditionCategoryValues(), string(cond.Category)) {
			return apperrors.Detail(apperrors.ErrInvalidInput, "unknown condition category %q", cond.Category)
		}
	}
	return nil
}

type AlertManager struct {
	alerts AlertStore
	auth   *AuthorizationManager
}

func NewAlertManager(alerts AlertStore, auth *AuthorizationManager) *AlertManager {
	return &AlertManager{alerts: alerts, auth: auth}
}

func (m *AlertManager) FindAlertsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.AlertCriteria) (*model.PageList[model.Alert], error) {
	ctx = tag(ctx, "FindAlertsByCriteria")

	scope, err := m.auth.InventoryScope(ctx, subject)
	if err != nil {
		return nil, err
	}
	page, err := m.alerts.FindByCriteria(ctx, c, scope)
	if err != nil {
		return nil, storeError(err, "Alert", 0)
	}
	return page, nil
}

// AcknowledgeAlerts records the subject as acknowledging every listed alert
// that is not yet acknowledged.
func (m *AlertManager) AcknowledgeAlerts(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	ctx = tag(ctx, "AcknowledgeAlerts")

	ids, err := m.authorize(ctx, subject, ids)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	acked, err := m.alerts.Acknowledge(ctx, ids, subject.Name, nowMillis())
	if err != nil {
		return 0, storeError(err, "Alert", ids[0])
	}
	return acked, nil
}

func (m *AlertManager) DeleteAlerts(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	ctx = tag(ctx, "DeleteAlerts")

	ids, err := m.authorize(ctx, subject, ids)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	deleted, err := m.alerts.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, storeError(err, "Alert", ids[0])
	}

	logger.InfoWithContext(ctx, "Alerts deleted").
		Ints("alert_ids", ids).
		Int64("deleted", deleted).
		Log()
	return deleted, nil
}

func (m *AlertManager) authorize(ctx context.Context, subject *model.Subject, ids []int) ([]int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return ids, nil
	}
	resourceIDs, err := m.alerts.ResourceIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, "Alert", ids[0])
	}
	if err := m.auth.RequireResource(ctx, subject, model.PermissionManageAlerts, resourceIDs...); err != nil {
		return nil, err
	}
	return ids, nil
}
