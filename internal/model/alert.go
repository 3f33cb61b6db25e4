package model

// AlertDefinition describes when alerts fire for a resource.
type AlertDefinition struct {
	ID                  int               `gorm:"column:id;primaryKey" json:"id"`
	Name                string            `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description         string            `gorm:"column:description;type:varchar(250)" json:"description"`
	Priority            AlertPriority     `gorm:"column:priority;type:varchar(15);not null" json:"priority"`
	Enabled             bool              `gorm:"column:enabled;default:true" json:"enabled"`
	Deleted             bool              `gorm:"column:deleted;default:false;index:idx_rhq_alert_def_deleted" json:"deleted"`
	ResourceID          int               `gorm:"column:resource_id;not null;index:idx_rhq_alert_def_resource" json:"resource_id"`
	Resource            *Resource         `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	Conditions          []AlertCondition  `gorm:"foreignKey:AlertDefinitionID" json:"conditions,omitempty"`
	ConditionExpression BooleanExpression `gorm:"column:condition_expression;type:varchar(3);default:'ANY'" json:"condition_expression"`
	WillRecover         bool              `gorm:"column:will_recover;default:false" json:"will_recover"`
	RecoveryID          int               `gorm:"column:recovery_id;default:0" json:"recovery_id"`
	Ctime               int64             `gorm:"column:ctime;autoCreateTime:milli" json:"ctime"`
	Mtime               int64             `gorm:"column:mtime;autoUpdateTime:milli" json:"mtime"`
}

func (AlertDefinition) TableName() string { return "rhq_alert_definition" }

type AlertCondition struct {
	ID                int                    `gorm:"column:id;primaryKey" json:"id"`
	AlertDefinitionID int                    `gorm:"column:alert_definition_id;not null;index" json:"alert_definition_id"`
	Category          AlertConditionCategory `gorm:"column:category;type:varchar(20);not null" json:"category"`
	Name              string                 `gorm:"column:name;type:varchar(100)" json:"name"`
	Comparator        string                 `gorm:"column:comparator;type:varchar(2)" json:"comparator,omitempty"`
	Threshold         *float64               `gorm:"column:threshold" json:"threshold,omitempty"`
	Option            string                 `gorm:"column:option_status;type:varchar(256)" json:"option,omitempty"`
}

func (AlertCondition) TableName() string { return "rhq_alert_condition" }

// Alert is one firing of an alert definition.
type Alert struct {
	ID                   int              `gorm:"column:id;primaryKey" json:"id"`
	AlertDefinitionID    int              `gorm:"column:alert_definition_id;not null;index:idx_rhq_alert_def" json:"alert_definition_id"`
	AlertDefinition      *AlertDefinition `gorm:"foreignKey:AlertDefinitionID" json:"alert_definition,omitempty"`
	Ctime                int64            `gorm:"column:ctime;autoCreateTime:milli;index:idx_rhq_alert_ctime" json:"ctime"`
	AcknowledgingSubject string           `gorm:"column:acknowledging_subject;type:varchar(100)" json:"acknowledging_subject,omitempty"`
	AcknowledgeTime      *int64           `gorm:"column:acknowledge_time" json:"acknowledge_time,omitempty"`
	RecoveryID           int              `gorm:"column:recovery_id;default:0" json:"recovery_id"`
	WillRecover          bool             `gorm:"column:will_recover;default:false" json:"will_recover"`
}

func (Alert) TableName() string { return "rhq_alert" }
