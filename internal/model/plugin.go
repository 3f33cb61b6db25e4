package model

// Plugin is a deployed agent or server plugin.
type Plugin struct {
	ID          int                  `gorm:"column:id;primaryKey" json:"id"`
	Name        string               `gorm:"column:name;type:varchar(200);not null;uniqueIndex:idx_rhq_plugin_name" json:"name"`
	DisplayName string               `gorm:"column:display_name;type:varchar(200)" json:"display_name"`
	Description string               `gorm:"column:description;type:varchar(1000)" json:"description"`
	Version     string               `gorm:"column:version;type:varchar(200)" json:"version"`
	Enabled     bool                 `gorm:"column:enabled;default:true" json:"enabled"`
	Status      PluginStatus         `gorm:"column:status;type:varchar(10);default:'INSTALLED'" json:"status"`
	Deployment  PluginDeploymentType `gorm:"column:deployment;type:varchar(10);not null" json:"deployment"`
	MD5         string               `gorm:"column:md5;type:varchar(100)" json:"md5"`
	Path        string               `gorm:"column:path;type:varchar(500)" json:"path,omitempty"`
	Ctime       int64                `gorm:"column:ctime;autoCreateTime:milli" json:"ctime"`
	Mtime       int64                `gorm:"column:mtime;autoUpdateTime:milli" json:"mtime"`
}

func (Plugin) TableName() string { return "rhq_plugin" }
