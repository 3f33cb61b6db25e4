package service

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/internal/repository"
)

// Finder is the read side every entity repository offers.
type Finder[T any] interface {
	FindByCriteria(ctx context.Context, c criteria.Criteria, subjectID int) (*model.PageList[T], error)
	GetByID(ctx context.Context, id int, preloads ...string) (*T, error)
}

type AuthorizationStore interface {
	GlobalPermissions(ctx context.Context, subjectID int) ([]model.Permission, error)
	ResourcePermissions(ctx context.Context, subjectID, resourceID int) ([]model.Permission, error)
	CountPermittedResources(ctx context.Context, subjectID int, perm model.Permission, resourceIDs []int) (int64, error)
	CountViewableResources(ctx context.Context, subjectID int, resourceIDs []int) (int64, error)
	CanViewGroup(ctx context.Context, subjectID, groupID int) (bool, error)
	HasRole(ctx context.Context, subjectID, roleID int) (bool, error)
}

type SubjectStore interface {
	Finder[model.Subject]
	GetByName(ctx context.Context, name string) (*model.Subject, error)
	Create(ctx context.Context, subject *model.Subject) error
	Save(ctx context.Context, subject *model.Subject) error
	SetPasswordHash(ctx context.Context, id int, hash string) error
	SetRoles(ctx context.Context, subjectID int, roleIDs []int) error
	Delete(ctx context.Context, ids []int) (int64, error)
}

type RoleStore interface {
	Finder[model.Role]
	CreateWithPermissions(ctx context.Context, role *model.Role) error
	UpdateWithPermissions(ctx context.Context, role *model.Role) error
	SetSubjects(ctx context.Context, roleID int, subjectIDs []int) error
	SetResourceGroups(ctx context.Context, roleID int, groupIDs []int) error
	Delete(ctx context.Context, ids []int) (int64, error)
}

type ResourceStore interface {
	Finder[model.Resource]
	Save(ctx context.Context, resource *model.Resource) error
	Uninventory(ctx context.Context, ids []int) ([]int, error)
	CountExisting(ctx context.Context, ids []int) (int64, error)
	DistinctColumn(ctx context.Context, ids []int, column string) ([]int, error)
}

type ResourceTypeStore interface {
	Finder[model.ResourceType]
	UpdateColumns(ctx context.Context, ids []int, values map[string]any) (int64, error)
}

type ResourceGroupStore interface {
	Finder[model.ResourceGroup]
	Create(ctx context.Context, group *model.ResourceGroup) error
	Save(ctx context.Context, group *model.ResourceGroup) error
	SetMembers(ctx context.Context, group *model.ResourceGroup, resourceIDs []int) error
	Delete(ctx context.Context, ids []int) (int64, error)
}

type AgentStore interface {
	Finder[model.Agent]
	GetByResourceID(ctx context.Context, resourceID int) (*model.Agent, error)
}

type AvailabilityStore interface {
	Finder[model.Availability]
	Current(ctx context.Context, resourceID int) (*model.Availability, error)
}

type AlertDefinitionStore interface {
	Finder[model.AlertDefinition]
	CreateWithConditions(ctx context.Context, def *model.AlertDefinition) error
	UpdateWithConditions(ctx context.Context, def *model.AlertDefinition) error
	UpdateColumns(ctx context.Context, ids []int, values map[string]any) (int64, error)
	DistinctColumn(ctx context.Context, ids []int, column string) ([]int, error)
}

type AlertStore interface {
	Finder[model.Alert]
	ResourceIDs(ctx context.Context, alertIDs []int) ([]int, error)
	Acknowledge(ctx context.Context, ids []int, subject string, at int64) (int64, error)
	DeleteByIDs(ctx context.Context, ids []int) (int64, error)
}

type OperationHistoryStore interface {
	Finder[model.OperationHistory]
	Cancel(ctx context.Context, id int, at int64) (bool, error)
	DeleteByIDs(ctx context.Context, ids []int) (int64, error)
	DistinctColumn(ctx context.Context, ids []int, column string) ([]int, error)
}

type EventStore interface {
	Finder[model.Event]
	CountBySeverity(ctx context.Context, c *criteria.EventCriteria, subjectID int) ([]repository.SeverityCount, error)
	DeleteByIDs(ctx context.Context, ids []int) (int64, error)
	DistinctColumn(ctx context.Context, ids []int, column string) ([]int, error)
}

type PluginStore interface {
	Finder[model.Plugin]
	UpdateColumns(ctx context.Context, ids []int, values map[string]any) (int64, error)
}
