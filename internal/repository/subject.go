package repository

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubjectRepository struct {
	entityStore[model.Subject]
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{newEntityStore[model.Subject](db, "Subject")}
}

// GetByName loads a subject and its roles by login name.
func (r *SubjectRepository) GetByName(ctx context.Context, name string) (*model.Subject, error) {
	ctx = r.tag(ctx, "GetByName")

	var subject model.Subject
	if err := r.db.WithContext(ctx).Preload("Roles").Where("name = ?", name).First(&subject).Error; err != nil {
		logger.DebugWithContext(ctx, "Subject lookup failed").
			String("name", name).
			Err(err).
			Log()
		return nil, err
	}
	return &subject, nil
}

// SetPasswordHash stores a new password hash for the subject.
func (r *SubjectRepository) SetPasswordHash(ctx context.Context, id int, hash string) error {
	return r.db.WithContext(r.tag(ctx, "SetPasswordHash")).
		Model(&model.Subject{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

// SetRoles replaces the roles assigned to a subject.
func (r *SubjectRepository) SetRoles(ctx context.Context, subjectID int, roleIDs []int) error {
	return r.db.WithContext(r.tag(ctx, "SetRoles")).Transaction(func(tx *gorm.DB) error {
		return subjectRoles.replace(tx, subjectID, roleIDs)
	})
}

// Delete removes subjects and their role assignments.
func (r *SubjectRepository) Delete(ctx context.Context, ids []int) (int64, error) {
	ctx = r.tag(ctx, "Delete")

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := subjectRoles.clear(tx, ids...); err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&model.Subject{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete subjects").
			Ints("subject_ids", ids).
			Err(err).
			Log()
	}
	return deleted, err
}

type RoleRepository struct {
	entityStore[model.Role]
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{newEntityStore[model.Role](db, "Role")}
}

// CreateWithPermissions inserts a role and its permission rows.
func (r *RoleRepository) CreateWithPermissions(ctx context.Context, role *model.Role) error {
	ctx = r.tag(ctx, "CreateWithPermissions")

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perms := role.Permissions
		if err := tx.Omit(clause.Associations).Create(role).Error; err != nil {
			return err
		}
		return storePermissions(tx, role, perms)
	})
}

// UpdateWithPermissions saves a role and replaces its permissions.
func (r *RoleRepository) UpdateWithPermissions(ctx context.Context, role *model.Role) error {
	ctx = r.tag(ctx, "UpdateWithPermissions")

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perms := role.Permissions
		if err := tx.Omit(clause.Associations).Save(role).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", role.ID).Delete(&model.RolePermission{}).Error; err != nil {
			return err
		}
		return storePermissions(tx, role, perms)
	})
}

func storePermissions(tx *gorm.DB, role *model.Role, perms []model.RolePermission) error {
	role.Permissions = perms
	if len(perms) == 0 {
		return nil
	}
	for i := range role.Permissions {
		role.Permissions[i].RoleID = role.ID
	}
	return tx.Create(&role.Permissions).Error
}

// SetSubjects replaces the subjects assigned to a role.
func (r *RoleRepository) SetSubjects(ctx context.Context, roleID int, subjectIDs []int) error {
	return r.db.WithContext(r.tag(ctx, "SetSubjects")).Transaction(func(tx *gorm.DB) error {
		return roleSubjects.replace(tx, roleID, subjectIDs)
	})
}

// SetResourceGroups replaces the groups a role is granted on.
func (r *RoleRepository) SetResourceGroups(ctx context.Context, roleID int, groupIDs []int) error {
	return r.db.WithContext(r.tag(ctx, "SetResourceGroups")).Transaction(func(tx *gorm.DB) error {
		return roleGroups.replace(tx, roleID, groupIDs)
	})
}

// Delete removes roles with their permissions, assignments and grants.
func (r *RoleRepository) Delete(ctx context.Context, ids []int) (int64, error) {
	ctx = r.tag(ctx, "Delete")

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := roleSubjects.clear(tx, ids...); err != nil {
			return err
		}
		if err := roleGroups.clear(tx, ids...); err != nil {
			return err
		}
		if err := tx.Where("role_id IN ?", ids).Delete(&model.RolePermission{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&model.Role{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}
