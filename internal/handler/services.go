package handler

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/dto"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/internal/service"
	"github.com/rhq-project/rhq-coregui/pkg/rpc"
)

// registrar is implemented by every RPC service shim.
type registrar interface {
	Register(d *rpc.Dispatcher) error
}

// RegisterServices registers every RPC service shim on d. Criteria page
// sizes are clamped to maxPageSize.
func RegisterServices(d *rpc.Dispatcher, m *service.Managers, maxPageSize int) error {
	shims := []registrar{
		NewSubjectService(m.Subject, maxPageSize),
		NewRoleService(m.Role, maxPageSize),
		NewAuthorizationService(m.Authorization),
		NewResourceService(m.Resource, maxPageSize),
		NewResourceTypeService(m.ResourceType, maxPageSize),
		NewResourceGroupService(m.ResourceGroup, maxPageSize),
		NewAgentService(m.Agent, maxPageSize),
		NewAvailabilityService(m.Availability, maxPageSize),
		NewAlertDefinitionService(m.AlertDefinition, maxPageSize),
		NewAlertService(m.Alert, maxPageSize),
		NewOperationService(m.Operation, maxPageSize),
		NewEventService(m.Event, maxPageSize),
		NewPluginService(m.Plugin, maxPageSize),
		NewSystemService(d),
	}
	for _, shim := range shims {
		if err := shim.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// authed adapts a call that needs the authenticated caller.
func authed[Req, Resp any](fn func(ctx context.Context, subject *model.Subject, req *Req) (Resp, error)) rpc.HandlerFunc {
	return rpc.Handle(func(ctx context.Context, req *Req) (Resp, error) {
		subject, err := rpc.SubjectFrom(ctx)
		if err != nil {
			var zero Resp
			return zero, err
		}
		return fn(ctx, subject, req)
	})
}

// findMapped builds a criteria from the request, runs finder and converts
// each item of the page.
func findMapped[C criteria.Criteria, T, R any](
	maxPageSize int,
	newCriteria func() C,
	finder func(context.Context, *model.Subject, C) (*model.PageList[T], error),
	convert func(T) R,
) rpc.HandlerFunc {
	return authed(func(ctx context.Context, subject *model.Subject, req *dto.FindRequest) (*dto.PageListResponse[R], error) {
		c := newCriteria()
		if err := req.Criteria.ApplyTo(c, maxPageSize); err != nil {
			return nil, err
		}
		page, err := finder(ctx, subject, c)
		if err != nil {
			return nil, err
		}
		return dto.MapPageList(page, convert), nil
	})
}

func find[C criteria.Criteria, T any](
	maxPageSize int,
	newCriteria func() C,
	finder func(context.Context, *model.Subject, C) (*model.PageList[T], error),
) rpc.HandlerFunc {
	return findMapped(maxPageSize, newCriteria, finder, func(item T) T { return item })
}

// bulk adapts a manager call over a list of ids that reports a row count.
func bulk(fn func(context.Context, *model.Subject, []int) (int64, error)) rpc.HandlerFunc {
	return authed(func(ctx context.Context, subject *model.Subject, req *dto.IDsRequest) (*dto.CountResponse, error) {
		n, err := fn(ctx, subject, req.IDs)
		if err != nil {
			return nil, err
		}
		return &dto.CountResponse{Count: n}, nil
	})
}

// get adapts a manager lookup by id.
func get[T any](fn func(context.Context, *model.Subject, int) (*T, error)) rpc.HandlerFunc {
	return authed(func(ctx context.Context, subject *model.Subject, req *dto.IDRequest) (*T, error) {
		return fn(ctx, subject, req.ID)
	})
}

// SystemService describes the dispatcher itself.
type SystemService struct {
	dispatcher *rpc.Dispatcher
}

func NewSystemService(d *rpc.Dispatcher) *SystemService {
	return &SystemService{dispatcher: d}
}

func (s *SystemService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("SystemService",
		rpc.Method{Name: "listMethods", Public: true, Handler: func(context.Context, rpc.Decoder) (any, error) {
			return &dto.MethodsResponse{Methods: s.dispatcher.Methods()}, nil
		}},
	)
}
