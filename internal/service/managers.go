package service

import (
	"github.com/rhq-project/rhq-coregui/internal/repository"
	"github.com/rhq-project/rhq-coregui/pkg/session"
	"gorm.io/gorm"
)

// Managers bundles every manager the RPC services delegate to.
type Managers struct {
	Authorization   *AuthorizationManager
	Session         *SessionManager
	Subject         *SubjectManager
	Role            *RoleManager
	Resource        *ResourceManager
	ResourceType    *ResourceTypeManager
	ResourceGroup   *ResourceGroupManager
	Agent           *AgentManager
	Availability    *AvailabilityManager
	AlertDefinition *AlertDefinitionManager
	Alert           *AlertManager
	Operation       *OperationManager
	Event           *EventManager
	Plugin          *PluginManager
}

// NewManagers wires the managers over GORM repositories.
func NewManagers(db *gorm.DB, sessions session.Store, config SessionConfig) *Managers {
	subjects := repository.NewSubjectRepository(db)
	resources := repository.NewResourceRepository(db)

	auth := NewAuthorizationManager(repository.NewAuthorizationRepository(db))
	sessionManager := NewSessionManager(subjects, sessions, config)

	return &Managers{
		Authorization:   auth,
		Session:         sessionManager,
		Subject:         NewSubjectManager(subjects, auth, sessionManager),
		Role:            NewRoleManager(repository.NewRoleRepository(db), auth),
		Resource:        NewResourceManager(resources, auth),
		ResourceType:    NewResourceTypeManager(repository.NewResourceTypeRepository(db), auth),
		ResourceGroup:   NewResourceGroupManager(repository.NewResourceGroupRepository(db), resources, auth),
		Agent:           NewAgentManager(repository.NewAgentRepository(db), auth),
		Availability:    NewAvailabilityManager(repository.NewAvailabilityRepository(db), auth),
		AlertDefinition: NewAlertDefinitionManager(repository.NewAlertDefinitionRepository(db), auth),
		Alert:           NewAlertManager(repository.NewAlertRepository(db), auth),
		Operation:       NewOperationManager(repository.NewOperationHistoryRepository(db), auth),
		Event:           NewEventManager(repository.NewEventRepository(db), auth),
		Plugin:          NewPluginManager(repository.NewPluginRepository(db), auth),
	}
}
