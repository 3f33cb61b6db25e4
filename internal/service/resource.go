package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"gorm.io/gorm"
)

type ResourceManager struct {
	resources ResourceStore
	auth      *AuthorizationManager
}

func NewResourceManager(resources ResourceStore, auth *AuthorizationManager) *ResourceManager {
	return &ResourceManager{resources: resources, auth: auth}
}

// FindResourcesByCriteria returns the resources the subject can see.
func (m *ResourceManager) FindResourcesByCriteria(ctx context.Context, subject *model.Subject, c *criteria.ResourceCriteria) (*model.PageList[model.Resource], error) {
	ctx = tag(ctx, "FindResourcesByCriteria")

	scope, err := m.auth.InventoryScope(ctx, subject)
	if err != nil {
		return nil, err
	}
	page, err := m.resources.FindByCriteria(ctx, c, scope)
	if err != nil {
		return nil, storeError(err, "Resource", 0)
	}
	return page, nil
}

func (m *ResourceManager) GetResource(ctx context.Context, subject *model.Subject, id int) (*model.Resource, error) {
	ctx = tag(ctx, "GetResource")

	if err := m.auth.RequireView(ctx, subject, id); err != nil {
		return nil, err
	}
	resource, err := m.resources.GetByID(ctx, id, "ResourceType")
	if err != nil {
		return nil, storeError(err, "Resource", id)
	}
	return resource, nil
}

// UpdateResource changes the editable attributes of a resource: name,
// description and location.
func (m *ResourceManager) UpdateResource(ctx context.Context, subject *model.Subject, update *model.Resource) (*model.Resource, error) {
	ctx = tag(ctx, "UpdateResource")

	if err := m.auth.RequireResource(ctx, subject, model.PermissionModifyResource, update.ID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(update.Name)
	if name == "" {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "resource name is required")
	}

	existing, err := m.resources.GetByID(ctx, update.ID)
	if err != nil {
		return nil, storeError(err, "Resource", update.ID)
	}
	existing.Name = name
	existing.Description = update.Description
	existing.Location = update.Location
	existing.ModifiedBy = subject.Name

	if err := m.resources.Save(ctx, existing); err != nil {
		return nil, storeError(err, "Resource", existing.ID)
	}
	return existing, nil
}

// UninventoryResources removes resources and their descendants from
// inventory and returns every affected id.
func (m *ResourceManager) UninventoryResources(ctx context.Context, subject *model.Subject, ids []int) ([]int, error) {
	ctx = tag(ctx, "UninventoryResources")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageInventory); err != nil {
		return nil, err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []int{}, nil
	}

	affected, err := m.resources.Uninventory(ctx, ids)
	if err != nil {
		return nil, storeError(err, "Resource", ids[0])
	}
	return affected, nil
}

type ResourceTypeManager struct {
	types ResourceTypeStore
	auth  *AuthorizationManager
}

func NewResourceTypeManager(types ResourceTypeStore, auth *AuthorizationManager) *ResourceTypeManager {
	return &ResourceTypeManager{types: types, auth: auth}
}

// FindResourceTypesByCriteria is open to every subject; types carry no
// inventory data.
func (m *ResourceTypeManager) FindResourceTypesByCriteria(ctx context.Context, subject *model.Subject, c *criteria.ResourceTypeCriteria) (*model.PageList[model.ResourceType], error) {
	page, err := m.types.FindByCriteria(tag(ctx, "FindResourceTypesByCriteria"), c, 0)
	if err != nil {
		return nil, storeError(err, "ResourceType", 0)
	}
	return page, nil
}

func (m *ResourceTypeManager) SetResourceTypeIgnoreFlag(ctx context.Context, subject *model.Subject, ids []int, ignored bool) (int64, error) {
	ctx = tag(ctx, "SetResourceTypeIgnoreFlag")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageInventory); err != nil {
		return 0, err
	}
	updated, err := m.types.UpdateColumns(ctx, uniqueIDs(ids), map[string]any{"ignored": ignored})
	if err != nil {
		return 0, storeError(err, "ResourceType", 0)
	}

	logger.InfoWithContext(ctx, "Resource type ignore flag set").
		Ints("resource_type_ids", ids).
		Bool("ignored", ignored).
		Int64("updated", updated).
		Log()
	return updated, nil
}

type ResourceGroupManager struct {
	groups    ResourceGroupStore
	resources ResourceStore
	auth      *AuthorizationManager
}

func NewResourceGroupManager(groups ResourceGroupStore, resources ResourceStore, auth *AuthorizationManager) *ResourceGroupManager {
	return &ResourceGroupManager{groups: groups, resources: resources, auth: auth}
}

func (m *ResourceGroupManager) FindResourceGroupsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.ResourceGroupCriteria) (*model.PageList[model.ResourceGroup], error) {
	ctx = tag(ctx, "FindResourceGroupsByCriteria")

	scope, err := m.auth.InventoryScope(ctx, subject)
	if err != nil {
		return nil, err
	}
	page, err := m.groups.FindByCriteria(ctx, c, scope)
	if err != nil {
		return nil, storeError(err, "ResourceGroup", 0)
	}
	return page, nil
}

func (m *ResourceGroupManager) GetResourceGroup(ctx context.Context, subject *model.Subject, id int) (*model.ResourceGroup, error) {
	ctx = tag(ctx, "GetResourceGroup")

	ok, err := m.auth.CanViewGroup(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, denied(subject, "cannot view resource group %d", id)
	}
	group, err := m.groups.GetByID(ctx, id, "ResourceType")
	if err != nil {
		return nil, storeError(err, "ResourceGroup", id)
	}
	return group, nil
}

// CreateResourceGroup creates an empty MIXED group.
func (m *ResourceGroupManager) CreateResourceGroup(ctx context.Context, subject *model.Subject, group *model.ResourceGroup) (*model.ResourceGroup, error) {
	ctx = tag(ctx, "CreateResourceGroup")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageInventory); err != nil {
		return nil, err
	}
	group.Name = strings.TrimSpace(group.Name)
	if group.Name == "" {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "group name is required")
	}
	group.ID = 0
	group.GroupCategory = model.GroupCategoryMixed
	group.ResourceTypeID = nil
	group.ModifiedBy = subject.Name

	if err := m.groups.Create(ctx, group); err != nil {
		return nil, storeError(err, "ResourceGroup", 0)
	}

	logger.InfoWithContext(ctx, "Resource group created").
		Int("group_id", group.ID).
		String("name", group.Name).
		Log()
	return group, nil
}

func (m *ResourceGroupManager) UpdateResourceGroup(ctx context.Context, subject *model.Subject, update *model.ResourceGroup) (*model.ResourceGroup, error) {
	ctx = tag(ctx, "UpdateResourceGroup")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageInventory); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(update.Name)
	if name == "" {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "group name is required")
	}

	existing, err := m.groups.GetByID(ctx, update.ID)
	if err != nil {
		return nil, storeError(err, "ResourceGroup", update.ID)
	}
	existing.Name = name
	existing.Description = update.Description
	existing.Recursive = update.Recursive
	existing.ModifiedBy = subject.Name

	if err := m.groups.Save(ctx, existing); err != nil {
		return nil, storeError(err, "ResourceGroup", existing.ID)
	}
	return existing, nil
}

func (m *ResourceGroupManager) DeleteResourceGroups(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	ctx = tag(ctx, "DeleteResourceGroups")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageInventory); err != nil {
		return 0, err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	deleted, err := m.groups.Delete(ctx, ids)
	if err != nil {
		return 0, storeError(err, "ResourceGroup", ids[0])
	}
	return deleted, nil
}

// SetAssignedResources replaces the explicit members of a group. A group
// whose members share one resource type becomes COMPATIBLE.
func (m *ResourceGroupManager) SetAssignedResources(ctx context.Context, subject *model.Subject, groupID int, resourceIDs []int) (*model.ResourceGroup, error) {
	ctx = tag(ctx, "SetAssignedResources")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageInventory); err != nil {
		return nil, err
	}
	group, err := m.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, storeError(err, "ResourceGroup", groupID)
	}

	resourceIDs = uniqueIDs(resourceIDs)
	existing, err := m.resources.CountExisting(ctx, resourceIDs)
	if err != nil {
		return nil, storeError(err, "Resource", 0)
	}
	if existing != int64(len(resourceIDs)) {
		return nil, apperrors.Detail(apperrors.ErrNotFound, "%d of %d resources do not exist",
			int64(len(resourceIDs))-existing, len(resourceIDs))
	}

	types, err := m.resources.DistinctColumn(ctx, resourceIDs, "resource_type_id")
	if err != nil {
		return nil, storeError(err, "Resource", 0)
	}
	if len(types) == 1 {
		typeID := types[0]
		group.GroupCategory = model.GroupCategoryCompatible
		group.ResourceTypeID = &typeID
	} else {
		group.GroupCategory = model.GroupCategoryMixed
		group.ResourceTypeID = nil
	}
	group.ModifiedBy = subject.Name

	if err := m.groups.SetMembers(ctx, group, resourceIDs); err != nil {
		return nil, storeError(err, "ResourceGroup", groupID)
	}
	return group, nil
}

type AgentManager struct {
	agents AgentStore
	auth   *AuthorizationManager
}

func NewAgentManager(agents AgentStore, auth *AuthorizationManager) *AgentManager {
	return &AgentManager{agents: agents, auth: auth}
}

func (m *AgentManager) FindAgentsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.AgentCriteria) (*model.PageList[model.Agent], error) {
	ctx = tag(ctx, "FindAgentsByCriteria")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSettings, model.PermissionManageInventory); err != nil {
		return nil, err
	}
	page, err := m.agents.FindByCriteria(ctx, c, 0)
	if err != nil {
		return nil, storeError(err, "Agent", 0)
	}
	return page, nil
}

func (m *AgentManager) GetAgentForResource(ctx context.Context, subject *model.Subject, resourceID int) (*model.Agent, error) {
	ctx = tag(ctx, "GetAgentForResource")

	if err := m.auth.RequireView(ctx, subject, resourceID); err != nil {
		return nil, err
	}
	agent, err := m.agents.GetByResourceID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Detail(apperrors.ErrNotFound, "resource %d has no agent", resourceID)
		}
		return nil, storeError(err, "Agent", 0)
	}
	return agent, nil
}

type AvailabilityManager struct {
	availabilities AvailabilityStore
	auth           *AuthorizationManager
}

func NewAvailabilityManager(availabilities AvailabilityStore, auth *AuthorizationManager) *AvailabilityManager {
	return &AvailabilityManager{availabilities: availabilities, auth: auth}
}

func (m *AvailabilityManager) FindAvailabilityByCriteria(ctx context.Context, subject *model.Subject, c *criteria.AvailabilityCriteria) (*model.PageList[model.Availability], error) {
	ctx = tag(ctx, "FindAvailabilityByCriteria")

	scope, err := m.auth.InventoryScope(ctx, subject)
	if err != nil {
		return nil, err
	}
	page, err := m.availabilities.FindByCriteria(ctx, c, scope)
	if err != nil {
		return nil, storeError(err, "Availability", 0)
	}
	return page, nil
}

// GetCurrentAvailability returns the open availability interval of a
// resource. A resource that never reported is UNKNOWN.
func (m *AvailabilityManager) GetCurrentAvailability(ctx context.Context, subject *model.Subject, resourceID int) (*model.Availability, error) {
	ctx = tag(ctx, "GetCurrentAvailability")

	if err := m.auth.RequireView(ctx, subject, resourceID); err != nil {
		return nil, err
	}
	avail, err := m.availabilities.Current(ctx, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.Availability{
				ResourceID:       resourceID,
				StartTime:        nowMillis(),
				AvailabilityType: model.AvailabilityUnknown,
			}, nil
		}
		return nil, storeError(err, "Availability", 0)
	}
	return avail, nil
}
