package handler

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/dto"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/rpc"
)

type AlertDefinitionManager interface {
	FindAlertDefinitionsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.AlertDefinitionCriteria) (*model.PageList[model.AlertDefinition], error)
	CreateAlertDefinition(ctx context.Context, subject *model.Subject, def *model.AlertDefinition) (*model.AlertDefinition, error)
	UpdateAlertDefinition(ctx context.Context, subject *model.Subject, update *model.AlertDefinition) (*model.AlertDefinition, error)
	EnableAlertDefinitions(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
	DisableAlertDefinitions(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
	RemoveAlertDefinitions(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
}

type AlertDefinitionService struct {
	manager     AlertDefinitionManager
	maxPageSize int
}

func NewAlertDefinitionService(manager AlertDefinitionManager, maxPageSize int) *AlertDefinitionService {
	return &AlertDefinitionService{manager: manager, maxPageSize: maxPageSize}
}

func (s *AlertDefinitionService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("AlertDefinitionService",
		rpc.Method{Name: "findAlertDefinitionsByCriteria", Handler: find(s.maxPageSize, criteria.NewAlertDefinitionCriteria, s.manager.FindAlertDefinitionsByCriteria)},
		rpc.Method{Name: "createAlertDefinition", Handler: authed(s.create)},
		rpc.Method{Name: "updateAlertDefinition", Handler: authed(s.update)},
		rpc.Method{Name: "enableAlertDefinitions", Handler: bulk(s.manager.EnableAlertDefinitions)},
		rpc.Method{Name: "disableAlertDefinitions", Handler: bulk(s.manager.DisableAlertDefinitions)},
		rpc.Method{Name: "removeAlertDefinitions", Handler: bulk(s.manager.RemoveAlertDefinitions)},
	)
}

func (s *AlertDefinitionService) create(ctx context.Context, subject *model.Subject, req *dto.SaveAlertDefinitionRequest) (*model.AlertDefinition, error) {
	return s.manager.CreateAlertDefinition(ctx, subject, req.Definition.Model())
}

func (s *AlertDefinitionService) update(ctx context.Context, subject *model.Subject, req *dto.SaveAlertDefinitionRequest) (*model.AlertDefinition, error) {
	if req.Definition.ID <= 0 {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "alert definition id is required")
	}
	return s.manager.UpdateAlertDefinition(ctx, subject, req.Definition.Model())
}

type AlertManager interface {
	FindAlertsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.AlertCriteria) (*model.PageList[model.Alert], error)
	AcknowledgeAlerts(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
	DeleteAlerts(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
}

type AlertService struct {
	manager     AlertManager
	maxPageSize int
}

func NewAlertService(manager AlertManager, maxPageSize int) *AlertService {
	return &AlertService{manager: manager, maxPageSize: maxPageSize}
}

func (s *AlertService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("AlertService",
		rpc.Method{Name: "findAlertsByCriteria", Handler: find(s.maxPageSize, criteria.NewAlertCriteria, s.manager.FindAlertsByCriteria)},
		rpc.Method{Name: "acknowledgeAlerts", Handler: bulk(s.manager.AcknowledgeAlerts)},
		rpc.Method{Name: "deleteAlerts", Handler: bulk(s.manager.DeleteAlerts)},
	)
}

type OperationManager interface {
	FindOperationHistoriesByCriteria(ctx context.Context, subject *model.Subject, c *criteria.OperationHistoryCriteria) (*model.PageList[model.OperationHistory], error)
	CancelOperationHistory(ctx context.Context, subject *model.Subject, id int) error
	DeleteOperationHistories(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
}

type OperationService struct {
	manager     OperationManager
	maxPageSize int
}

func NewOperationService(manager OperationManager, maxPageSize int) *OperationService {
	return &OperationService{manager: manager, maxPageSize: maxPageSize}
}

func (s *OperationService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("OperationService",
		rpc.Method{Name: "findOperationHistoriesByCriteria", Handler: find(s.maxPageSize, criteria.NewOperationHistoryCriteria, s.manager.FindOperationHistoriesByCriteria)},
		rpc.Method{Name: "cancelOperationHistory", Handler: authed(s.cancel)},
		rpc.Method{Name: "deleteOperationHistories", Handler: bulk(s.manager.DeleteOperationHistories)},
	)
}

func (s *OperationService) cancel(ctx context.Context, subject *model.Subject, req *dto.IDRequest) (*struct{}, error) {
	if err := s.manager.CancelOperationHistory(ctx, subject, req.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

type EventManager interface {
	FindEventsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.EventCriteria) (*model.PageList[model.Event], error)
	DeleteEvents(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
	GetEventCountsBySeverity(ctx context.Context, subject *model.Subject, c *criteria.EventCriteria) (map[model.EventSeverity]int64, error)
}

type EventService struct {
	manager     EventManager
	maxPageSize int
}

func NewEventService(manager EventManager, maxPageSize int) *EventService {
	return &EventService{manager: manager, maxPageSize: maxPageSize}
}

func (s *EventService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("EventService",
		rpc.Method{Name: "findEventsByCriteria", Handler: find(s.maxPageSize, criteria.NewEventCriteria, s.manager.FindEventsByCriteria)},
		rpc.Method{Name: "deleteEvents", Handler: bulk(s.manager.DeleteEvents)},
		rpc.Method{Name: "getEventCountsBySeverity", Handler: authed(s.countsBySeverity)},
	)
}

// countsBySeverity uses only the filters of the criteria; paging and sorting
// do not apply to the counts.
func (s *EventService) countsBySeverity(ctx context.Context, subject *model.Subject, req *dto.FindRequest) (*dto.EventCountsResponse, error) {
	c := criteria.NewEventCriteria()
	if err := req.Criteria.ApplyTo(c, s.maxPageSize); err != nil {
		return nil, err
	}
	counts, err := s.manager.GetEventCountsBySeverity(ctx, subject, c)
	if err != nil {
		return nil, err
	}
	return &dto.EventCountsResponse{Counts: counts}, nil
}

type PluginManager interface {
	FindPluginsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.PluginCriteria) (*model.PageList[model.Plugin], error)
	EnablePlugins(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
	DisablePlugins(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
}

type PluginService struct {
	manager     PluginManager
	maxPageSize int
}

func NewPluginService(manager PluginManager, maxPageSize int) *PluginService {
	return &PluginService{manager: manager, maxPageSize: maxPageSize}
}

func (s *PluginService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("PluginService",
		rpc.Method{Name: "findPluginsByCriteria", Handler: find(s.maxPageSize, criteria.NewPluginCriteria, s.manager.FindPluginsByCriteria)},
		rpc.Method{Name: "enablePlugins", Handler: bulk(s.manager.EnablePlugins)},
		rpc.Method{Name: "disablePlugins", Handler: bulk(s.manager.DisablePlugins)},
	)
}
