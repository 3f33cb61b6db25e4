package model

// Event is a log entry collected from a resource's event source.
type Event struct {
	ID             int           `gorm:"column:id;primaryKey" json:"id"`
	ResourceID     int           `gorm:"column:resource_id;not null;index:idx_rhq_event_resource_time" json:"resource_id"`
	Resource       *Resource     `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	EventType      string        `gorm:"column:event_type;type:varchar(100)" json:"event_type"`
	SourceLocation string        `gorm:"column:source_location;type:varchar(2000)" json:"source_location"`
	Severity       EventSeverity `gorm:"column:severity;type:varchar(12);not null" json:"severity"`
	Detail         string        `gorm:"column:detail;type:text" json:"detail"`
	Timestamp      int64         `gorm:"column:timestamp;not null;index:idx_rhq_event_resource_time" json:"timestamp"`
	AckUser        string        `gorm:"column:ack_user;type:varchar(100)" json:"ack_user,omitempty"`
	AckTime        *int64        `gorm:"column:ack_time" json:"ack_time,omitempty"`
}

func (Event) TableName() string { return "rhq_event" }
