package repository

import (
	"context"
	"time"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/model"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"gorm.io/gorm"
)

// CriteriaQueryRunner executes the count and page queries of a criteria and
// assembles the page, honoring the criteria restriction.
type CriteriaQueryRunner[T any] struct {
	db        *gorm.DB
	generator *QueryGenerator
	criteria  criteria.Criteria
}

func NewCriteriaQueryRunner[T any](db *gorm.DB, c criteria.Criteria, generator *QueryGenerator) *CriteriaQueryRunner[T] {
	return &CriteriaQueryRunner[T]{db: db, generator: generator, criteria: c}
}

func (r *CriteriaQueryRunner[T]) Execute(ctx context.Context) (*model.PageList[T], error) {
	ctx = ctxutil.WithValue(ctx, ctxutil.FunctionKey, "Execute")
	ctx = ctxutil.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	entity := r.criteria.Schema().Entity()
	pc := r.generator.pageControl()
	restriction := r.criteria.Restriction()

	var total int64
	if restriction != criteria.RestrictionCollectionOnly {
		if err := r.generator.CountQuery(r.db.WithContext(ctx)).Count(&total).Error; err != nil {
			logger.ErrorWithContext(ctx, "Failed to count criteria matches").
				String("entity", entity).
				Err(err).
				Log()
			return nil, err
		}
	}

	if restriction == criteria.RestrictionCountOnly {
		logger.DebugWithContext(ctx, "Criteria count executed").
			String("entity", entity).
			Int64("total", total).
			Duration(time.Since(start)).
			Log()
		return model.NewPageList[T](nil, total, pc), nil
	}

	var items []T
	if restriction == criteria.RestrictionNone && total == 0 {
		return model.NewPageList(items, 0, pc), nil
	}
	if err := r.generator.Query(r.db.WithContext(ctx)).Find(&items).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch criteria matches").
			String("entity", entity).
			Int("page_number", pc.PageNumber).
			Int("page_size", pc.PageSize).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Criteria query executed").
		String("entity", entity).
		Int("count", len(items)).
		Int64("total", total).
		Duration(time.Since(start)).
		Log()

	if restriction == criteria.RestrictionCollectionOnly {
		return model.NewUnboundedPageList(items, pc), nil
	}
	return model.NewPageList(items, total, pc), nil
}
