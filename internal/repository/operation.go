package repository

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"gorm.io/gorm"
)

type OperationHistoryRepository struct {
	entityStore[model.OperationHistory]
}

func NewOperationHistoryRepository(db *gorm.DB) *OperationHistoryRepository {
	return &OperationHistoryRepository{newEntityStore[model.OperationHistory](db, "OperationHistory")}
}

// Cancel moves an in-progress history to CANCELED. It reports false when the
// history was no longer in progress.
func (r *OperationHistoryRepository) Cancel(ctx context.Context, id int, at int64) (bool, error) {
	ctx = r.tag(ctx, "Cancel")

	result := r.db.WithContext(ctx).Model(&model.OperationHistory{}).
		Where("id = ? AND status = ?", id, model.OperationStatusInProgress).
		Updates(map[string]any{"status": model.OperationStatusCanceled, "modified_time": at})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to cancel operation").
			Int("history_id", id).
			Err(result.Error).
			Log()
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

type EventRepository struct {
	entityStore[model.Event]
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{newEntityStore[model.Event](db, "Event")}
}

// SeverityCount is the number of events of one severity.
type SeverityCount struct {
	Severity model.EventSeverity `json:"severity"`
	Count    int64               `json:"count"`
}

// CountBySeverity counts the events matching the criteria per severity.
// Paging and sorting of the criteria are ignored.
func (r *EventRepository) CountBySeverity(ctx context.Context, c *criteria.EventCriteria, subjectID int) ([]SeverityCount, error) {
	ctx = r.tag(ctx, "CountBySeverity")

	var counts []SeverityCount
	err := NewQueryGenerator(c).AuthorizeFor(subjectID).
		CountQuery(r.db.WithContext(ctx)).
		Select("rhq_event.severity AS severity, COUNT(*) AS count").
		Group("rhq_event.severity").
		Scan(&counts).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to count events by severity").
			Err(err).
			Log()
		return nil, err
	}
	return counts, nil
}

type PluginRepository struct {
	entityStore[model.Plugin]
}

func NewPluginRepository(db *gorm.DB) *PluginRepository {
	return &PluginRepository{newEntityStore[model.Plugin](db, "Plugin")}
}
