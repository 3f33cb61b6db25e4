package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/internal/criteria"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SubjectManager manages users. Mutating another subject requires
// MANAGE_SECURITY; subjects may always edit their own profile and password.
type SubjectManager struct {
	subjects SubjectStore
	auth     *AuthorizationManager
	sessions *SessionManager
}

func NewSubjectManager(subjects SubjectStore, auth *AuthorizationManager, sessions *SessionManager) *SubjectManager {
	return &SubjectManager{subjects: subjects, auth: auth, sessions: sessions}
}

func (m *SubjectManager) Login(ctx context.Context, name, password string) (*LoginResult, error) {
	return m.sessions.Login(ctx, name, password)
}

func (m *SubjectManager) Logout(ctx context.Context, token string) error {
	return m.sessions.Logout(ctx, token)
}

// FindSubjectsByCriteria lists subjects. Without VIEW_USERS or
// MANAGE_SECURITY a subject only finds itself.
func (m *SubjectManager) FindSubjectsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.SubjectCriteria) (*model.PageList[model.Subject], error) {
	ctx = tag(ctx, "FindSubjectsByCriteria")

	viewer, err := m.canViewUsers(ctx, subject)
	if err != nil {
		return nil, err
	}
	if !viewer {
		c.AddFilterID(subject.ID)
		c.SetFiltersOptional(false)
	}

	page, err := m.subjects.FindByCriteria(ctx, c, 0)
	if err != nil {
		return nil, storeError(err, "Subject", 0)
	}
	return page, nil
}

func (m *SubjectManager) canViewUsers(ctx context.Context, subject *model.Subject) (bool, error) {
	for _, perm := range []model.Permission{model.PermissionManageSecurity, model.PermissionViewUsers} {
		ok, err := m.auth.HasGlobalPermission(ctx, subject, perm)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func (m *SubjectManager) GetSubject(ctx context.Context, subject *model.Subject, id int) (*model.Subject, error) {
	if id != subject.ID {
		if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity, model.PermissionViewUsers); err != nil {
			return nil, err
		}
	}
	found, err := m.subjects.GetByID(tag(ctx, "GetSubject"), id, "Roles")
	if err != nil {
		return nil, storeError(err, "Subject", id)
	}
	return found, nil
}

// CreateSubject creates a subject with a bcrypt hashed password and assigns
// the given roles.
func (m *SubjectManager) CreateSubject(ctx context.Context, subject *model.Subject, newSubject *model.Subject, password string, roleIDs []int) (*model.Subject, error) {
	ctx = tag(ctx, "CreateSubject")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity); err != nil {
		return nil, err
	}
	newSubject.Name = strings.TrimSpace(newSubject.Name)
	if newSubject.Name == "" {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "subject name is required")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if _, err := m.subjects.GetByName(ctx, newSubject.Name); err == nil {
		return nil, apperrors.Detail(apperrors.ErrAlreadyExists, "subject [%s] already exists", newSubject.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError(err, "Subject", 0)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	newSubject.ID = 0
	newSubject.Fsystem = false
	newSubject.PasswordHash = hash
	newSubject.Roles = nil

	if err := m.subjects.Create(ctx, newSubject); err != nil {
		return nil, storeError(err, "Subject", 0)
	}
	if len(roleIDs) > 0 {
		if err := m.subjects.SetRoles(ctx, newSubject.ID, roleIDs); err != nil {
			return nil, storeError(err, "Subject", newSubject.ID)
		}
	}

	logger.InfoWithContext(ctx, "Subject created").
		Int("new_subject_id", newSubject.ID).
		String("name", newSubject.Name).
		Ints("role_ids", roleIDs).
		Log()
	return newSubject, nil
}

// UpdateSubject updates profile fields. Only security managers may change
// the active flag; deactivating a subject ends its sessions.
func (m *SubjectManager) UpdateSubject(ctx context.Context, subject *model.Subject, update *model.Subject) (*model.Subject, error) {
	ctx = tag(ctx, "UpdateSubject")

	manager, err := m.auth.HasGlobalPermission(ctx, subject, model.PermissionManageSecurity)
	if err != nil {
		return nil, err
	}
	if update.ID != subject.ID && !manager {
		return nil, denied(subject, "cannot update subject %d", update.ID)
	}

	existing, err := m.subjects.GetByID(ctx, update.ID)
	if err != nil {
		return nil, storeError(err, "Subject", update.ID)
	}
	if existing.Fsystem {
		return nil, apperrors.Detail(apperrors.ErrSystemEntity, "subject [%s] is a system subject", existing.Name)
	}

	existing.FirstName = update.FirstName
	existing.LastName = update.LastName
	existing.EmailAddress = update.EmailAddress
	existing.PhoneNumber = update.PhoneNumber
	existing.Department = update.Department

	deactivated := false
	if update.Factive != existing.Factive {
		if !manager {
			return nil, denied(subject, "cannot change the active flag")
		}
		if update.ID == subject.ID && !update.Factive {
			return nil, apperrors.Detail(apperrors.ErrInvalidState, "subjects cannot deactivate themselves")
		}
		deactivated = !update.Factive
		existing.Factive = update.Factive
	}

	if err := m.subjects.Save(ctx, existing); err != nil {
		return nil, storeError(err, "Subject", existing.ID)
	}
	if deactivated {
		if err := m.sessions.InvalidateSubject(ctx, existing.ID); err != nil {
			return nil, err
		}
	}
	return existing, nil
}

// DeleteSubjects removes subjects and ends their sessions. System subjects
// and the caller itself cannot be deleted.
func (m *SubjectManager) DeleteSubjects(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	ctx = tag(ctx, "DeleteSubjects")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity); err != nil {
		return 0, err
	}
	ids = uniqueIDs(ids)
	for _, id := range ids {
		if id == subject.ID {
			return 0, apperrors.ErrSelfDeletion
		}
		if id == constants.OverlordSubjectID || id == constants.RHQAdminSubjectID {
			return 0, apperrors.Detail(apperrors.ErrSystemEntity, "subject %d is a system subject", id)
		}
	}

	deleted, err := m.subjects.Delete(ctx, ids)
	if err != nil {
		return 0, storeError(err, "Subject", 0)
	}
	for _, id := range ids {
		if err := m.sessions.InvalidateSubject(ctx, id); err != nil {
			return deleted, err
		}
	}

	logger.InfoWithContext(ctx, "Subjects deleted").
		Ints("subject_ids", ids).
		Int64("deleted", deleted).
		Log()
	return deleted, nil
}

// ChangePassword sets a new password and ends every session of the subject.
func (m *SubjectManager) ChangePassword(ctx context.Context, subject *model.Subject, name, password string) error {
	ctx = tag(ctx, "ChangePassword")

	if name != subject.Name {
		if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity); err != nil {
			return err
		}
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	target, err := m.subjects.GetByName(ctx, name)
	if err != nil {
		return storeError(err, "Subject", 0)
	}
	if target.ID == constants.OverlordSubjectID {
		return apperrors.Detail(apperrors.ErrSystemEntity, "subject [%s] cannot log in", target.Name)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := m.subjects.SetPasswordHash(ctx, target.ID, hash); err != nil {
		return storeError(err, "Subject", target.ID)
	}

	logger.InfoWithContext(ctx, "Password changed").
		Int("target_subject_id", target.ID).
		Log()
	return m.sessions.InvalidateSubject(ctx, target.ID)
}

func validatePassword(password string) error {
	if len(password) < constants.MinPasswordLength || len(password) > constants.MaxPasswordLength {
		return apperrors.Detail(apperrors.ErrInvalidInput, "password must be between %d and %d characters",
			constants.MinPasswordLength, constants.MaxPasswordLength)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return string(hash), nil
}

// RoleManager manages roles, their permissions and assignments. Every
// mutation requires MANAGE_SECURITY; system roles cannot be changed.
type RoleManager struct {
	roles RoleStore
	auth  *AuthorizationManager
}

func NewRoleManager(roles RoleStore, auth *AuthorizationManager) *RoleManager {
	return &RoleManager{roles: roles, auth: auth}
}

func (m *RoleManager) FindRolesByCriteria(ctx context.Context, subject *model.Subject, c *criteria.RoleCriteria) (*model.PageList[model.Role], error) {
	ctx = tag(ctx, "FindRolesByCriteria")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity, model.PermissionViewUsers); err != nil {
		return nil, err
	}
	page, err := m.roles.FindByCriteria(ctx, c, 0)
	if err != nil {
		return nil, storeError(err, "Role", 0)
	}
	return page, nil
}

func (m *RoleManager) GetRole(ctx context.Context, subject *model.Subject, id int) (*model.Role, error) {
	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity, model.PermissionViewUsers); err != nil {
		return nil, err
	}
	role, err := m.roles.GetByID(tag(ctx, "GetRole"), id, "Permissions")
	if err != nil {
		return nil, storeError(err, "Role", id)
	}
	return role, nil
}

func (m *RoleManager) CreateRole(ctx context.Context, subject *model.Subject, role *model.Role) (*model.Role, error) {
	ctx = tag(ctx, "CreateRole")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity); err != nil {
		return nil, err
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}
	role.ID = 0
	role.Fsystem = false

	if err := m.roles.CreateWithPermissions(ctx, role); err != nil {
		return nil, storeError(err, "Role", 0)
	}

	logger.InfoWithContext(ctx, "Role created").
		Int("role_id", role.ID).
		String("name", role.Name).
		Log()
	return role, nil
}

func (m *RoleManager) UpdateRole(ctx context.Context, subject *model.Subject, role *model.Role) (*model.Role, error) {
	ctx = tag(ctx, "UpdateRole")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity); err != nil {
		return nil, err
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}

	existing, err := m.roles.GetByID(ctx, role.ID)
	if err != nil {
		return nil, storeError(err, "Role", role.ID)
	}
	if existing.Fsystem {
		return nil, apperrors.Detail(apperrors.ErrSystemEntity, "role [%s] is a system role", existing.Name)
	}

	existing.Name = role.Name
	existing.Description = role.Description
	existing.Permissions = role.Permissions
	if err := m.roles.UpdateWithPermissions(ctx, existing); err != nil {
		return nil, storeError(err, "Role", role.ID)
	}
	return existing, nil
}

func (m *RoleManager) DeleteRoles(ctx context.Context, subject *model.Subject, ids []int) (int64, error) {
	ctx = tag(ctx, "DeleteRoles")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity); err != nil {
		return 0, err
	}
	ids = uniqueIDs(ids)
	for _, id := range ids {
		if id == constants.SuperUserRoleID || id == constants.AllResourcesRole {
			return 0, apperrors.Detail(apperrors.ErrSystemEntity, "role %d is a system role", id)
		}
	}

	deleted, err := m.roles.Delete(ctx, ids)
	if err != nil {
		return 0, storeError(err, "Role", 0)
	}
	return deleted, nil
}

// SetAssignedSubjects replaces the subjects holding a role. rhqadmin always
// keeps the super user role.
func (m *RoleManager) SetAssignedSubjects(ctx context.Context, subject *model.Subject, roleID int, subjectIDs []int) error {
	ctx = tag(ctx, "SetAssignedSubjects")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity); err != nil {
		return err
	}
	if _, err := m.roles.GetByID(ctx, roleID); err != nil {
		return storeError(err, "Role", roleID)
	}

	subjectIDs = uniqueIDs(subjectIDs)
	if roleID == constants.SuperUserRoleID && !containsID(subjectIDs, constants.RHQAdminSubjectID) {
		return apperrors.Detail(apperrors.ErrSystemEntity, "subject [%s] must keep the super user role", constants.RHQAdminName)
	}
	for _, id := range subjectIDs {
		if id == constants.OverlordSubjectID {
			return apperrors.Detail(apperrors.ErrSystemEntity, "roles cannot be assigned to the overlord")
		}
	}

	if err := m.roles.SetSubjects(ctx, roleID, subjectIDs); err != nil {
		return storeError(err, "Role", roleID)
	}

	logger.InfoWithContext(ctx, "Role subjects assigned").
		Int("role_id", roleID).
		Ints("subject_ids", subjectIDs).
		Log()
	return nil
}

// SetAssignedResourceGroups replaces the groups a role grants its resource
// permissions on.
func (m *RoleManager) SetAssignedResourceGroups(ctx context.Context, subject *model.Subject, roleID int, groupIDs []int) error {
	ctx = tag(ctx, "SetAssignedResourceGroups")

	if err := m.auth.RequireGlobal(ctx, subject, model.PermissionManageSecurity); err != nil {
		return err
	}
	if _, err := m.roles.GetByID(ctx, roleID); err != nil {
		return storeError(err, "Role", roleID)
	}

	if err := m.roles.SetResourceGroups(ctx, roleID, uniqueIDs(groupIDs)); err != nil {
		return storeError(err, "Role", roleID)
	}
	return nil
}

func validateRole(role *model.Role) error {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return apperrors.Detail(apperrors.ErrInvalidInput, "role name is required")
	}
	seen := make(map[model.Permission]bool, len(role.Permissions))
	perms := make([]model.RolePermission, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		if !p.Operation.IsValid() {
			return apperrors.Detail(apperrors.ErrInvalidInput, "unknown permission %q", p.Operation)
		}
		if !seen[p.Operation] {
			seen[p.Operation] = true
			perms = append(perms, model.RolePermission{Operation: p.Operation})
		}
	}
	role.Permissions = perms
	return nil
}

func containsID(ids []int, id int) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
