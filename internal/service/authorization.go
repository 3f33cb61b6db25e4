package service

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
)

// AuthorizationManager answers permission questions for subjects. The
// overlord, rhqadmin and every holder of the super user role are superusers
// and pass every check.
type AuthorizationManager struct {
	store AuthorizationStore
}

func NewAuthorizationManager(store AuthorizationStore) *AuthorizationManager {
	return &AuthorizationManager{store: store}
}

func (m *AuthorizationManager) IsSuperuser(ctx context.Context, subject *model.Subject) (bool, error) {
	if subject.ID == constants.OverlordSubjectID || subject.ID == constants.RHQAdminSubjectID {
		return true, nil
	}
	if subject.Roles != nil {
		for _, role := range subject.Roles {
			if role.ID == constants.SuperUserRoleID {
				return true, nil
			}
		}
		return false, nil
	}
	ok, err := m.store.HasRole(ctx, subject.ID, constants.SuperUserRoleID)
	if err != nil {
		return false, storeError(err, "Role", constants.SuperUserRoleID)
	}
	return ok, nil
}

// GetExplicitGlobalPermissions returns the global permissions of a subject.
func (m *AuthorizationManager) GetExplicitGlobalPermissions(ctx context.Context, subject *model.Subject) ([]model.Permission, error) {
	super, err := m.IsSuperuser(ctx, subject)
	if err != nil {
		return nil, err
	}
	if super {
		return model.GlobalPermissions(), nil
	}

	perms, err := m.store.GlobalPermissions(ctx, subject.ID)
	if err != nil {
		return nil, storeError(err, "Subject", subject.ID)
	}
	return perms, nil
}

// GetImplicitResourcePermissions returns the permissions a subject holds on
// a resource. Inventory managers hold every resource permission.
func (m *AuthorizationManager) GetImplicitResourcePermissions(ctx context.Context, subject *model.Subject, resourceID int) ([]model.Permission, error) {
	unrestricted, err := m.HasGlobalPermission(ctx, subject, model.PermissionManageInventory)
	if err != nil {
		return nil, err
	}
	if unrestricted {
		return model.ResourcePermissions(), nil
	}

	perms, err := m.store.ResourcePermissions(ctx, subject.ID, resourceID)
	if err != nil {
		return nil, storeError(err, "Resource", resourceID)
	}
	return perms, nil
}

func (m *AuthorizationManager) HasGlobalPermission(ctx context.Context, subject *model.Subject, perm model.Permission) (bool, error) {
	perms, err := m.GetExplicitGlobalPermissions(ctx, subject)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p == perm {
			return true, nil
		}
	}
	return false, nil
}

// HasResourcePermission reports whether the subject holds perm on every
// listed resource.
func (m *AuthorizationManager) HasResourcePermission(ctx context.Context, subject *model.Subject, perm model.Permission, resourceIDs ...int) (bool, error) {
	ids := uniqueIDs(resourceIDs)
	if len(ids) == 0 {
		return true, nil
	}

	unrestricted, err := m.HasGlobalPermission(ctx, subject, model.PermissionManageInventory)
	if err != nil || unrestricted {
		return unrestricted, err
	}

	count, err := m.store.CountPermittedResources(ctx, subject.ID, perm, ids)
	if err != nil {
		return false, storeError(err, "Resource", ids[0])
	}
	return count == int64(len(ids)), nil
}

// CanViewResources reports whether the subject can see every listed resource.
func (m *AuthorizationManager) CanViewResources(ctx context.Context, subject *model.Subject, resourceIDs ...int) (bool, error) {
	ids := uniqueIDs(resourceIDs)
	if len(ids) == 0 {
		return true, nil
	}

	unrestricted, err := m.HasGlobalPermission(ctx, subject, model.PermissionManageInventory)
	if err != nil || unrestricted {
		return unrestricted, err
	}

	count, err := m.store.CountViewableResources(ctx, subject.ID, ids)
	if err != nil {
		return false, storeError(err, "Resource", ids[0])
	}
	return count == int64(len(ids)), nil
}

func (m *AuthorizationManager) CanViewGroup(ctx context.Context, subject *model.Subject, groupID int) (bool, error) {
	unrestricted, err := m.HasGlobalPermission(ctx, subject, model.PermissionManageInventory)
	if err != nil || unrestricted {
		return unrestricted, err
	}

	ok, err := m.store.CanViewGroup(ctx, subject.ID, groupID)
	if err != nil {
		return false, storeError(err, "ResourceGroup", groupID)
	}
	return ok, nil
}

// InventoryScope returns the subject id criteria finders restrict results
// to, or zero when the subject sees the whole inventory.
func (m *AuthorizationManager) InventoryScope(ctx context.Context, subject *model.Subject) (int, error) {
	unrestricted, err := m.HasGlobalPermission(ctx, subject, model.PermissionManageInventory)
	if err != nil {
		return 0, err
	}
	if unrestricted {
		return 0, nil
	}
	return subject.ID, nil
}

// RequireGlobal fails with a permission error unless the subject holds one
// of the permissions.
func (m *AuthorizationManager) RequireGlobal(ctx context.Context, subject *model.Subject, perms ...model.Permission) error {
	for _, perm := range perms {
		ok, err := m.HasGlobalPermission(ctx, subject, perm)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	logger.WarnWithContext(ctx, "Global permission denied").
		Int("subject_id", subject.ID).
		Any("required", perms).
		Log()
	return denied(subject, "requires global permission %s", perms[0])
}

// RequireResource fails with a permission error unless the subject holds
// perm on every listed resource.
func (m *AuthorizationManager) RequireResource(ctx context.Context, subject *model.Subject, perm model.Permission, resourceIDs ...int) error {
	ok, err := m.HasResourcePermission(ctx, subject, perm, resourceIDs...)
	if err != nil {
		return err
	}
	if !ok {
		logger.WarnWithContext(ctx, "Resource permission denied").
			Int("subject_id", subject.ID).
			String("required", string(perm)).
			Ints("resource_ids", resourceIDs).
			Log()
		return denied(subject, "requires %s on resources %v", perm, resourceIDs)
	}
	return nil
}

// RequireView fails unless the subject can see every listed resource.
func (m *AuthorizationManager) RequireView(ctx context.Context, subject *model.Subject, resourceIDs ...int) error {
	ok, err := m.CanViewResources(ctx, subject, resourceIDs...)
	if err != nil {
		return err
	}
	if !ok {
		return denied(subject, "cannot view resources %v", resourceIDs)
	}
	return nil
}
