package repository

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/model"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"gorm.io/gorm"
)

const globalPermissionsSQL = `SELECT DISTINCT rp.operation FROM rhq_permission rp
JOIN rhq_subject_role_map sr ON sr.role_id = rp.role_id
WHERE sr.subject_id = ? AND rp.operation IN ?`

const resourcePermissionsSQL = `SELECT DISTINCT rp.operation FROM rhq_permission rp
JOIN rhq_role_resource_group_map rrg ON rrg.role_id = rp.role_id
JOIN rhq_resource_group_members rgm ON rgm.resource_group_id = rrg.resource_group_id
JOIN rhq_subject_role_map sr ON sr.role_id = rp.role_id
WHERE sr.subject_id = ? AND rgm.resource_id = ?`

const permittedResourcesSQL = `SELECT COUNT(DISTINCT rgm.resource_id) FROM rhq_resource_group_members rgm
JOIN rhq_role_resource_group_map rrg ON rrg.resource_group_id = rgm.resource_group_id
JOIN rhq_subject_role_map sr ON sr.role_id = rrg.role_id
JOIN rhq_permission rp ON rp.role_id = rrg.role_id
WHERE sr.subject_id = ? AND rp.operation = ? AND rgm.resource_id IN ?`

const viewableResourcesSQL = `SELECT COUNT(DISTINCT rgm.resource_id) FROM rhq_resource_group_members rgm
JOIN rhq_role_resource_group_map rrg ON rrg.resource_group_id = rgm.resource_group_id
JOIN rhq_subject_role_map sr ON sr.role_id = rrg.role_id
WHERE sr.subject_id = ? AND rgm.resource_id IN ?`

const viewableGroupSQL = `SELECT COUNT(*) FROM rhq_role_resource_group_map rrg
JOIN rhq_subject_role_map sr ON sr.role_id = rrg.role_id
WHERE sr.subject_id = ? AND rrg.resource_group_id = ?`

const roleMembershipSQL = `SELECT COUNT(*) FROM rhq_subject_role_map WHERE subject_id = ? AND role_id = ?`

// AuthorizationRepository answers permission questions from the role,
// group and permission join tables.
type AuthorizationRepository struct {
	db *gorm.DB
}

func NewAuthorizationRepository(db *gorm.DB) *AuthorizationRepository {
	return &AuthorizationRepository{db: db}
}

func (r *AuthorizationRepository) query(ctx context.Context, function string) *gorm.DB {
	ctx = ctxutil.WithValue(ctx, ctxutil.FunctionKey, function)
	ctx = ctxutil.WithValue(ctx, ctxutil.ModuleKey, "repository")
	return r.db.WithContext(ctx)
}

// GlobalPermissions returns the global permissions granted to a subject.
func (r *AuthorizationRepository) GlobalPermissions(ctx context.Context, subjectID int) ([]model.Permission, error) {
	var perms []model.Permission
	err := r.query(ctx, "GlobalPermissions").
		Raw(globalPermissionsSQL, subjectID, model.GlobalPermissions()).
		Scan(&perms).Error
	return perms, err
}

// ResourcePermissions returns the permissions a subject holds on a resource
// through the groups containing it.
func (r *AuthorizationRepository) ResourcePermissions(ctx context.Context, subjectID, resourceID int) ([]model.Permission, error) {
	var perms []model.Permission
	err := r.query(ctx, "ResourcePermissions").
		Raw(resourcePermissionsSQL, subjectID, resourceID).
		Scan(&perms).Error
	return perms, err
}

// CountPermittedResources counts the listed resources on which the subject
// holds perm.
func (r *AuthorizationRepository) CountPermittedResources(ctx context.Context, subjectID int, perm model.Permission, resourceIDs []int) (int64, error) {
	var count int64
	err := r.query(ctx, "CountPermittedResources").
		Raw(permittedResourcesSQL, subjectID, string(perm), resourceIDs).
		Scan(&count).Error
	return count, err
}

// CountViewableResources counts the listed resources the subject can view.
func (r *AuthorizationRepository) CountViewableResources(ctx context.Context, subjectID int, resourceIDs []int) (int64, error) {
	var count int64
	err := r.query(ctx, "CountViewableResources").
		Raw(viewableResourcesSQL, subjectID, resourceIDs).
		Scan(&count).Error
	return count, err
}

// CanViewGroup reports whether one of the subject's roles is granted on the group.
func (r *AuthorizationRepository) CanViewGroup(ctx context.Context, subjectID, groupID int) (bool, error) {
	var count int64
	err := r.query(ctx, "CanViewGroup").
		Raw(viewableGroupSQL, subjectID, groupID).
		Scan(&count).Error
	return count > 0, err
}

// HasRole reports whether the subject is assigned the role.
func (r *AuthorizationRepository) HasRole(ctx context.Context, subjectID, roleID int) (bool, error) {
	var count int64
	err := r.query(ctx, "HasRole").
		Raw(roleMembershipSQL, subjectID, roleID).
		Scan(&count).Error
	return count > 0, err
}
