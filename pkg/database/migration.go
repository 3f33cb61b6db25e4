package database

import (
	"github.com/rhq-project/rhq-coregui/internal/model"
	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&model.Plugin{},
		&model.ResourceType{},
		&model.Agent{},
		&model.Resource{},
		&model.ResourceGroup{},
		&model.Availability{},
		&model.AlertDefinition{},
		&model.AlertCondition{},
		&model.Alert{},
		&model.Subject{},
		&model.Role{},
		&model.RolePermission{},
		&model.OperationHistory{},
		&model.Event{},
	}
}

// AutoMigrate runs database migrations for all models, join tables included.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
