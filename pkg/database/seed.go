package database

import (
	"fmt"

	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SystemRoles returns the built in roles. The super user role holds every
// permission; the all resources role holds everything but MANAGE_SECURITY.
func SystemRoles() []model.Role {
	var allResources []model.Permission
	for _, p := range model.AllPermissions() {
		if p != model.PermissionManageSecurity {
			allResources = append(allResources, p)
		}
	}
	return []model.Role{
		{
			ID:          constants.SuperUserRoleID,
			Name:        "Super User Role",
			Description: "System superuser role that provides full access to everything",
			Fsystem:     true,
			Permissions: rolePermissions(constants.SuperUserRoleID, model.AllPermissions()),
		},
		{
			ID:          constants.AllResourcesRole,
			Name:        "All Resources Role",
			Description: "Provides full management of all resources",
			Fsystem:     true,
			Permissions: rolePermissions(constants.AllResourcesRole, allResources),
		},
	}
}

func rolePermissions(roleID int, perms []model.Permission) []model.RolePermission {
	out := make([]model.RolePermission, len(perms))
	for i, p := range perms {
		out[i] = model.RolePermission{RoleID: roleID, Operation: p}
	}
	return out
}

// Seed creates the system roles, the overlord subject and the rhqadmin
// superuser. Existing rows are left alone.
func Seed(db *gorm.DB, adminPassword string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedRoles(tx); err != nil {
			return err
		}
		if err := seedSubjects(tx, adminPassword); err != nil {
			return err
		}
		return resetSequences(tx, "rhq_role", "rhq_subject")
	})
}

func seedRoles(tx *gorm.DB) error {
	for _, role := range SystemRoles() {
		perms := role.Permissions
		role.Permissions = nil
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&perms).Error; err != nil {
			return fmt.Errorf("seed permissions of %s: %w", role.Name, err)
		}
	}
	return nil
}

func seedSubjects(tx *gorm.DB, adminPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	subjects := []model.Subject{
		{
			ID:      constants.OverlordSubjectID,
			Name:    constants.OverlordName,
			Factive: true,
			Fsystem: true,
		},
		{
			ID:           constants.RHQAdminSubjectID,
			Name:         constants.RHQAdminName,
			FirstName:    "RHQ",
			LastName:     "Administrator",
			EmailAddress: "rhqadmin@localhost",
			Factive:      true,
			PasswordHash: string(hashedPassword),
		},
	}
	if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&subjects).Error; err != nil {
		return fmt.Errorf("seed subjects: %w", err)
	}

	return tx.Table("rhq_subject_role_map").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{"subject_id": constants.RHQAdminSubjectID, "role_id": constants.SuperUserRoleID}).Error
}

// resetSequences moves postgres id sequences past explicitly seeded ids.
func resetSequences(tx *gorm.DB, tables ...string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range tables {
		sql := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))", table, table)
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("reset sequence of %s: %w", table, err)
		}
	}
	return nil
}
