package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"gorm.io/gorm"
)

// storeError turns a repository error into a domain error.
func storeError(err error, entity string, id int) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.WrapError(apperrors.Detail(apperrors.ErrNotFound, "%s %d does not exist", entity, id), err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.WrapError(apperrors.Detail(apperrors.ErrAlreadyExists, "%s already exists", entity), err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.WrapError(apperrors.Detail(apperrors.ErrServiceUnavailable, "request cancelled"), err)
	case apperrors.IsDomainError(err):
		return err
	default:
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
}

func denied(subject *model.Subject, format string, args ...any) error {
	err := apperrors.Detail(apperrors.ErrPermissionDenied, format, args...)
	err.Message = "subject [" + subject.Name + "] " + err.Message
	return err
}

func tag(ctx context.Context, function string) context.Context {
	ctx = ctxutil.WithValue(ctx, ctxutil.FunctionKey, function)
	return ctxutil.WithValue(ctx, ctxutil.ModuleKey, "service")
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
