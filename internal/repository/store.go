package repository

import (
	"context"
	"time"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/model"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entityStore holds the persistence operations every entity repository
// shares. Errors are returned as GORM reports them.
type entityStore[T any] struct {
	db     *gorm.DB
	entity string
}

func newEntityStore[T any](db *gorm.DB, entity string) entityStore[T] {
	return entityStore[T]{db: db, entity: entity}
}

func (s entityStore[T]) tag(ctx context.Context, function string) context.Context {
	ctx = ctxutil.WithValue(ctx, ctxutil.FunctionKey, function)
	return ctxutil.WithValue(ctx, ctxutil.ModuleKey, "repository")
}

// FindByCriteria runs a criteria query. A non-zero subject id restricts the
// results to what the subject is authorized to see.
func (s entityStore[T]) FindByCriteria(ctx context.Context, c criteria.Criteria, subjectID int) (*model.PageList[T], error) {
	generator := NewQueryGenerator(c).AuthorizeFor(subjectID)
	return NewCriteriaQueryRunner[T](s.db, c, generator).Execute(ctx)
}

// GetByID loads one entity with the given associations preloaded.
func (s entityStore[T]) GetByID(ctx context.Context, id int, preloads ...string) (*T, error) {
	ctx = s.tag(ctx, "GetByID")

	query := s.db.WithContext(ctx)
	for _, p := range preloads {
		query = query.Preload(p)
	}

	var entity T
	if err := query.First(&entity, id).Error; err != nil {
		logger.DebugWithContext(ctx, "Entity lookup failed").
			String("entity", s.entity).
			Int("id", id).
			Err(err).
			Log()
		return nil, err
	}
	return &entity, nil
}

// Create inserts the entity without touching its associations.
func (s entityStore[T]) Create(ctx context.Context, entity *T) error {
	ctx = s.tag(ctx, "Create")
	start := time.Now()

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create entity").
			String("entity", s.entity).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Entity created").
		String("entity", s.entity).
		Duration(time.Since(start)).
		Log()
	return nil
}

// Save updates every column of the entity. Associations are left alone.
func (s entityStore[T]) Save(ctx context.Context, entity *T) error {
	ctx = s.tag(ctx, "Save")

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to save entity").
			String("entity", s.entity).
			Err(err).
			Log()
		return err
	}
	return nil
}

// DistinctColumn returns the distinct values of an integer column over the
// listed entities.
func (s entityStore[T]) DistinctColumn(ctx context.Context, ids []int, column string) ([]int, error) {
	var values []int
	if len(ids) == 0 {
		return values, nil
	}

	var entity T
	err := s.db.WithContext(s.tag(ctx, "DistinctColumn")).
		Model(&entity).
		Where("id IN ?", ids).
		Distinct().
		Pluck(column, &values).Error
	return values, err
}

// UpdateColumns sets the given columns on every listed entity.
func (s entityStore[T]) UpdateColumns(ctx context.Context, ids []int, values map[string]any) (int64, error) {
	ctx = s.tag(ctx, "UpdateColumns")
	if len(ids) == 0 {
		return 0, nil
	}

	var entity T
	result := s.db.WithContext(ctx).Model(&entity).Where("id IN ?", ids).Updates(values)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update entities").
			String("entity", s.entity).
			Ints("ids", ids).
			Err(result.Error).
			Log()
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByIDs removes the listed entities and reports how many were removed.
func (s entityStore[T]) DeleteByIDs(ctx context.Context, ids []int) (int64, error) {
	ctx = s.tag(ctx, "DeleteByIDs")
	if len(ids) == 0 {
		return 0, nil
	}

	var entity T
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&entity)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete entities").
			String("entity", s.entity).
			Ints("ids", ids).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	logger.InfoWithContext(ctx, "Entities deleted").
		String("entity", s.entity).
		Int64("deleted", result.RowsAffected).
		Log()
	return result.RowsAffected, nil
}
