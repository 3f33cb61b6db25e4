package handler

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/dto"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/rpc"
)

type ResourceManager interface {
	FindResourcesByCriteria(ctx context.Context, subject *model.Subject, c *criteria.ResourceCriteria) (*model.PageList[model.Resource], error)
	GetResource(ctx context.Context, subject *model.Subject, id int) (*model.Resource, error)
	UpdateResource(ctx context.Context, subject *model.Subject, update *model.Resource) (*model.Resource, error)
	UninventoryResources(ctx context.Context, subject *model.Subject, ids []int) ([]int, error)
}

type ResourceService struct {
	manager     ResourceManager
	maxPageSize int
}

func NewResourceService(manager ResourceManager, maxPageSize int) *ResourceService {
	return &ResourceService{manager: manager, maxPageSize: maxPageSize}
}

func (s *ResourceService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("ResourceService",
		rpc.Method{Name: "findResourcesByCriteria", Handler: find(s.maxPageSize, criteria.NewResourceCriteria, s.manager.FindResourcesByCriteria)},
		rpc.Method{Name: "getResource", Handler: get(s.manager.GetResource)},
		rpc.Method{Name: "updateResource", Handler: authed(s.updateResource)},
		rpc.Method{Name: "uninventoryResources", Handler: authed(s.uninventory)},
	)
}

func (s *ResourceService) updateResource(ctx context.Context, subject *model.Subject, req *dto.UpdateResourceRequest) (*model.Resource, error) {
	return s.manager.UpdateResource(ctx, subject, req.Model())
}

func (s *ResourceService) uninventory(ctx context.Context, subject *model.Subject, req *dto.IDsRequest) (*dto.UninventoryResponse, error) {
	ids, err := s.manager.UninventoryResources(ctx, subject, req.IDs)
	if err != nil {
		return nil, err
	}
	return &dto.UninventoryResponse{ResourceIDs: nonNil(ids)}, nil
}

type ResourceTypeManager interface {
	FindResourceTypesByCriteria(ctx context.Context, subject *model.Subject, c *criteria.ResourceTypeCriteria) (*model.PageList[model.ResourceType], error)
	SetResourceTypeIgnoreFlag(ctx context.Context, subject *model.Subject, ids []int, ignored bool) (int64, error)
}

type ResourceTypeService struct {
	manager     ResourceTypeManager
	maxPageSize int
}

func NewResourceTypeService(manager ResourceTypeManager, maxPageSize int) *ResourceTypeService {
	return &ResourceTypeService{manager: manager, maxPageSize: maxPageSize}
}

func (s *ResourceTypeService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("ResourceTypeService",
		rpc.Method{Name: "findResourceTypesByCriteria", Handler: find(s.maxPageSize, criteria.NewResourceTypeCriteria, s.manager.FindResourceTypesByCriteria)},
		rpc.Method{Name: "setResourceTypeIgnoreFlag", Handler: authed(s.setIgnoreFlag)},
	)
}

func (s *ResourceTypeService) setIgnoreFlag(ctx context.Context, subject *model.Subject, req *dto.IgnoreFlagRequest) (*dto.CountResponse, error) {
	n, err := s.manager.SetResourceTypeIgnoreFlag(ctx, subject, req.IDs, req.Ignored)
	if err != nil {
		return nil, err
	}
	return &dto.CountResponse{Count: n}, nil
}

type ResourceGroupManager interface {
	FindResourceGroupsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.ResourceGroupCriteria) (*model.PageList[model.ResourceGroup], error)
	GetResourceGroup(ctx context.Context, subject *model.Subject, id int) (*model.ResourceGroup, error)
	CreateResourceGroup(ctx context.Context, subject *model.Subject, group *model.ResourceGroup) (*model.ResourceGroup, error)
	UpdateResourceGroup(ctx context.Context, subject *model.Subject, update *model.ResourceGroup) (*model.ResourceGroup, error)
	DeleteResourceGroups(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
	SetAssignedResources(ctx context.Context, subject *model.Subject, groupID int, resourceIDs []int) (*model.ResourceGroup, error)
}

type ResourceGroupService struct {
	manager     ResourceGroupManager
	maxPageSize int
}

func NewResourceGroupService(manager ResourceGroupManager, maxPageSize int) *ResourceGroupService {
	return &ResourceGroupService{manager: manager, maxPageSize: maxPageSize}
}

func (s *ResourceGroupService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("ResourceGroupService",
		rpc.Method{Name: "findResourceGroupsByCriteria", Handler: find(s.maxPageSize, criteria.NewResourceGroupCriteria, s.manager.FindResourceGroupsByCriteria)},
		rpc.Method{Name: "getResourceGroup", Handler: get(s.manager.GetResourceGroup)},
		rpc.Method{Name: "createResourceGroup", Handler: authed(s.createGroup)},
		rpc.Method{Name: "updateResourceGroup", Handler: authed(s.updateGroup)},
		rpc.Method{Name: "deleteResourceGroups", Handler: bulk(s.manager.DeleteResourceGroups)},
		rpc.Method{Name: "setAssignedResources", Handler: authed(s.setAssignedResources)},
	)
}

func (s *ResourceGroupService) createGroup(ctx context.Context, subject *model.Subject, req *dto.SaveResourceGroupRequest) (*model.ResourceGroup, error) {
	return s.manager.CreateResourceGroup(ctx, subject, req.Group.Model())
}

func (s *ResourceGroupService) updateGroup(ctx context.Context, subject *model.Subject, req *dto.SaveResourceGroupRequest) (*model.ResourceGroup, error) {
	if req.Group.ID <= 0 {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "group id is required")
	}
	return s.manager.UpdateResourceGroup(ctx, subject, req.Group.Model())
}

func (s *ResourceGroupService) setAssignedResources(ctx context.Context, subject *model.Subject, req *dto.AssignResourcesRequest) (*model.ResourceGroup, error) {
	return s.manager.SetAssignedResources(ctx, subject, req.GroupID, req.ResourceIDs)
}

type AgentManager interface {
	FindAgentsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.AgentCriteria) (*model.PageList[model.Agent], error)
	GetAgentForResource(ctx context.Context, subject *model.Subject, resourceID int) (*model.Agent, error)
}

type AgentService struct {
	manager     AgentManager
	maxPageSize int
}

func NewAgentService(manager AgentManager, maxPageSize int) *AgentService {
	return &AgentService{manager: manager, maxPageSize: maxPageSize}
}

func (s *AgentService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("AgentService",
		rpc.Method{Name: "findAgentsByCriteria", Handler: find(s.maxPageSize, criteria.NewAgentCriteria, s.manager.FindAgentsByCriteria)},
		rpc.Method{Name: "getAgentForResource", Handler: authed(s.agentForResource)},
	)
}

func (s *AgentService) agentForResource(ctx context.Context, subject *model.Subject, req *dto.ResourceRequest) (*model.Agent, error) {
	return s.manager.GetAgentForResource(ctx, subject, req.ResourceID)
}

type AvailabilityManager interface {
	FindAvailabilityByCriteria(ctx context.Context, subject *model.Subject, c *criteria.AvailabilityCriteria) (*model.PageList[model.Availability], error)
	GetCurrentAvailability(ctx context.Context, subject *model.Subject, resourceID int) (*model.Availability, error)
}

type AvailabilityService struct {
	manager     AvailabilityManager
	maxPageSize int
}

func NewAvailabilityService(manager AvailabilityManager, maxPageSize int) *AvailabilityService {
	return &AvailabilityService{manager: manager, maxPageSize: maxPageSize}
}

func (s *AvailabilityService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("AvailabilityService",
		rpc.Method{Name: "findAvailabilityByCriteria", Handler: find(s.maxPageSize, criteria.NewAvailabilityCriteria, s.manager.FindAvailabilityByCriteria)},
		rpc.Method{Name: "getCurrentAvailability", Handler: authed(s.currentAvailability)},
	)
}

func (s *AvailabilityService) currentAvailability(ctx context.Context, subject *model.Subject, req *dto.ResourceRequest) (*model.Availability, error) {
	return s.manager.GetCurrentAvailability(ctx, subject, req.ResourceID)
}
