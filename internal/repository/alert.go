package repository

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlertDefinitionRepository struct {
	entityStore[model.AlertDefinition]
}

func NewAlertDefinitionRepository(db *gorm.DB) *AlertDefinitionRepository {
	return &AlertDefinitionRepository{newEntityStore[model.AlertDefinition](db, "AlertDefinition")}
}

// CreateWithConditions inserts a definition and its conditions.
func (r *AlertDefinitionRepository) CreateWithConditions(ctx context.Context, def *model.AlertDefinition) error {
	ctx = r.tag(ctx, "CreateWithConditions")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conditions := def.Conditions
		if err := tx.Omit(clause.Associations).Create(def).Error; err != nil {
			return err
		}
		return r.storeConditions(tx, def, conditions)
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create alert definition").
			String("name", def.Name).
			Int("resource_id", def.ResourceID).
			Err(err).
			Log()
	}
	return err
}

// UpdateWithConditions saves a definition and replaces its conditions.
func (r *AlertDefinitionRepository) UpdateWithConditions(ctx context.Context, def *model.AlertDefinition) error {
	ctx = r.tag(ctx, "UpdateWithConditions")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conditions := def.Conditions
		if err := tx.Omit(clause.Associations).Save(def).Error; err != nil {
			return err
		}
		if err := tx.Where("alert_definition_id = ?", def.ID).Delete(&model.AlertCondition{}).Error; err != nil {
			return err
		}
		return r.storeConditions(tx, def, conditions)
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to update alert definition").
			Int("alert_definition_id", def.ID).
			Err(err).
			Log()
	}
	return err
}

func (r *AlertDefinitionRepository) storeConditions(tx *gorm.DB, def *model.AlertDefinition, conditions []model.AlertCondition) error {
	def.Conditions = conditions
	if len(conditions) == 0 {
		return nil
	}
	for i := range def.Conditions {
		def.Conditions[i].ID = 0
		def.Conditions[i].AlertDefinitionID = def.ID
	}
	return tx.Create(&def.Conditions).Error
}

type AlertRepository struct {
	entityStore[model.Alert]
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{newEntityStore[model.Alert](db, "Alert")}
}

// ResourceIDs returns the resources of the definitions behind the alerts.
func (r *AlertRepository) ResourceIDs(ctx context.Context, alertIDs []int) ([]int, error) {
	var ids []int
	if len(alertIDs) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(r.tag(ctx, "ResourceIDs")).
		Table("rhq_alert").
		Joins("JOIN rhq_alert_definition ad ON ad.id = rhq_alert.alert_definition_id").
		Where("rhq_alert.id IN ?", alertIDs).
		Distinct().
		Pluck("ad.resource_id", &ids).Error
	return ids, err
}

// Acknowledge marks the unacknowledged alerts among ids as acknowledged.
func (r *AlertRepository) Acknowledge(ctx context.Context, ids []int, subject string, at int64) (int64, error) {
	ctx = r.tag(ctx, "Acknowledge")
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Model(&model.Alert{}).
		Where("id IN ? AND acknowledge_time IS NULL", ids).
		Updates(map[string]any{"acknowledging_subject": subject, "acknowledge_time": at})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to acknowledge alerts").
			Ints("alert_ids", ids).
			Err(result.Error).
			Log()
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
