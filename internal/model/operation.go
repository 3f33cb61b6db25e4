package model

import "gorm.io/datatypes"

// OperationHistory records one invocation of a resource operation.
type OperationHistory struct {
	ID            int                    `gorm:"column:id;primaryKey" json:"id"`
	JobName       string                 `gorm:"column:job_name;type:varchar(255);not null" json:"job_name"`
	JobGroup      string                 `gorm:"column:job_group;type:varchar(255);not null" json:"job_group"`
	OperationName string                 `gorm:"column:operation_name;type:varchar(100);not null" json:"operation_name"`
	Status        OperationRequestStatus `gorm:"column:status;type:varchar(20);not null;index:idx_rhq_operation_history_status" json:"status"`
	ErrorMessage  string                 `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
	SubjectName   string                 `gorm:"column:subject_name;type:varchar(100);not null" json:"subject_name"`
	ResourceID    int                    `gorm:"column:resource_id;not null;index:idx_rhq_operation_history_resource" json:"resource_id"`
	Resource      *Resource              `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	Parameters    datatypes.JSONMap      `gorm:"column:parameters" json:"parameters,omitempty"`
	Results       datatypes.JSONMap      `gorm:"column:results" json:"results,omitempty"`
	CreatedTime   int64                  `gorm:"column:created_time;autoCreateTime:milli" json:"created_time"`
	StartedTime   int64                  `gorm:"column:started_time" json:"started_time"`
	ModifiedTime  int64                  `gorm:"column:modified_time;autoUpdateTime:milli" json:"modified_time"`
}

func (OperationHistory) TableName() string { return "rhq_operation_history" }
