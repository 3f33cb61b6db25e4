package model

// Resource is a managed entity in inventory: a platform, server or service.
type Resource struct {
	ID                  int              `gorm:"column:id;primaryKey" json:"id"`
	UUID                string           `gorm:"column:uuid;type:varchar(36);uniqueIndex:idx_rhq_resource_uuid" json:"uuid"`
	Name                string           `gorm:"column:name;type:varchar(500);not null;index:idx_rhq_resource_name" json:"name"`
	ResourceKey         string           `gorm:"column:resource_key;type:varchar(500)" json:"resource_key"`
	Description         string           `gorm:"column:description;type:varchar(1000)" json:"description"`
	Version             string           `gorm:"column:version;type:varchar(100)" json:"version"`
	Location            string           `gorm:"column:location;type:varchar(100)" json:"location"`
	InventoryStatus     InventoryStatus  `gorm:"column:inventory_status;type:varchar(20);default:'NEW';index:idx_rhq_resource_status" json:"inventory_status"`
	CurrentAvailability AvailabilityType `gorm:"column:current_availability;type:varchar(20);default:'UNKNOWN'" json:"current_availability"`
	ResourceTypeID      int              `gorm:"column:resource_type_id;not null;index:idx_rhq_resource_type" json:"resource_type_id"`
	ResourceType        *ResourceType    `gorm:"foreignKey:ResourceTypeID" json:"resource_type,omitempty"`
	ParentResourceID    *int             `gorm:"column:parent_resource_id;index:idx_rhq_resource_parent" json:"parent_resource_id,omitempty"`
	ParentResource      *Resource        `gorm:"foreignKey:ParentResourceID" json:"parent_resource,omitempty"`
	ChildResources      []Resource       `gorm:"foreignKey:ParentResourceID" json:"child_resources,omitempty"`
	AgentID             *int             `gorm:"column:agent_id;index:idx_rhq_resource_agent" json:"agent_id,omitempty"`
	Agent               *Agent           `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	ExplicitGroups      []ResourceGroup  `gorm:"many2many:rhq_resource_group_members;joinForeignKey:ResourceID;joinReferences:ResourceGroupID" json:"explicit_groups,omitempty"`
	Ctime               int64            `gorm:"column:ctime;autoCreateTime:milli" json:"ctime"`
	Mtime               int64            `gorm:"column:mtime;autoUpdateTime:milli" json:"mtime"`
	ModifiedBy          string           `gorm:"column:modified_by;type:varchar(100)" json:"modified_by"`
}

func (Resource) TableName() string { return "rhq_resource" }

// ResourceType is the plugin-defined type of a resource.
type ResourceType struct {
	ID                   int              `gorm:"column:id;primaryKey" json:"id"`
	Name                 string           `gorm:"column:name;type:varchar(100);not null;uniqueIndex:idx_rhq_resource_type_name_plugin" json:"name"`
	Plugin               string           `gorm:"column:plugin;type:varchar(100);not null;uniqueIndex:idx_rhq_resource_type_name_plugin" json:"plugin"`
	Category             ResourceCategory `gorm:"column:category;type:varchar(20);not null" json:"category"`
	Description          string           `gorm:"column:description;type:varchar(1000)" json:"description"`
	ParentResourceTypeID *int             `gorm:"column:parent_resource_type_id" json:"parent_resource_type_id,omitempty"`
	ParentResourceType   *ResourceType    `gorm:"foreignKey:ParentResourceTypeID" json:"parent_resource_type,omitempty"`
	Ignored              bool             `gorm:"column:ignored;default:false" json:"ignored"`
	Deleted              bool             `gorm:"column:deleted;default:false" json:"deleted"`
}

func (ResourceType) TableName() string { return "rhq_resource_type" }

// ResourceGroup is an explicit set of resources that roles are granted on.
type ResourceGroup struct {
	ID                int           `gorm:"column:id;primaryKey" json:"id"`
	Name              string        `gorm:"column:name;type:varchar(100);not null;uniqueIndex:idx_rhq_resource_group_name" json:"name"`
	Description       string        `gorm:"column:description;type:varchar(100)" json:"description"`
	GroupCategory     GroupCategory `gorm:"column:group_category;type:varchar(20);default:'MIXED'" json:"group_category"`
	Recursive         bool          `gorm:"column:is_recursive;default:false" json:"recursive"`
	ResourceTypeID    *int          `gorm:"column:resource_type_id" json:"resource_type_id,omitempty"`
	ResourceType      *ResourceType `gorm:"foreignKey:ResourceTypeID" json:"resource_type,omitempty"`
	ExplicitResources []Resource    `gorm:"many2many:rhq_resource_group_members;joinForeignKey:ResourceGroupID;joinReferences:ResourceID" json:"explicit_resources,omitempty"`
	Roles             []Role        `gorm:"many2many:rhq_role_resource_group_map;joinForeignKey:ResourceGroupID;joinReferences:RoleID" json:"roles,omitempty"`
	Ctime             int64         `gorm:"column:ctime;autoCreateTime:milli" json:"ctime"`
	Mtime             int64         `gorm:"column:mtime;autoUpdateTime:milli" json:"mtime"`
	ModifiedBy        string        `gorm:"column:modified_by;type:varchar(100)" json:"modified_by"`
}

func (ResourceGroup) TableName() string { return "rhq_resource_group" }

// Agent runs on a platform and reports inventory and measurements.
type Agent struct {
	ID                     int    `gorm:"column:id;primaryKey" json:"id"`
	Name                   string `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_rhq_agent_name" json:"name"`
	Address                string `gorm:"column:address;type:varchar(255);not null" json:"address"`
	Port                   int    `gorm:"column:port;not null" json:"port"`
	RemoteEndpoint         string `gorm:"column:remote_endpoint;type:varchar(4000)" json:"remote_endpoint"`
	AgentToken             string `gorm:"column:agenttoken;type:varchar(100);not null" json:"-"`
	LastAvailabilityReport int64  `gorm:"column:last_availability_report" json:"last_availability_report"`
	LastAvailabilityPing   int64  `gorm:"column:last_availability_ping" json:"last_availability_ping"`
	Ctime                  int64  `gorm:"column:ctime;autoCreateTime:milli" json:"ctime"`
	Mtime                  int64  `gorm:"column:mtime;autoUpdateTime:milli" json:"mtime"`
}

func (Agent) TableName() string { return "rhq_agent" }

// Availability is one interval of a resource's availability history.
// An open interval has no end time.
type Availability struct {
	ID               int              `gorm:"column:id;primaryKey" json:"id"`
	ResourceID       int              `gorm:"column:resource_id;not null;index:idx_rhq_availability_resource_start" json:"resource_id"`
	Resource         *Resource        `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	StartTime        int64            `gorm:"column:start_time;not null;index:idx_rhq_availability_resource_start" json:"start_time"`
	EndTime          *int64           `gorm:"column:end_time" json:"end_time,omitempty"`
	AvailabilityType AvailabilityType `gorm:"column:availability_type;type:varchar(20);not null" json:"availability_type"`
}

func (Availability) TableName() string { return "rhq_availability" }
