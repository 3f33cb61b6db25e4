package model

// Permission is an operation a role grants. Global permissions apply to the
// whole system, resource permissions apply to the members of a role's groups.
type Permission string

const (
	// Global
	PermissionManageSecurity     Permission = "MANAGE_SECURITY"
	PermissionManageInventory    Permission = "MANAGE_INVENTORY"
	PermissionManageSettings     Permission = "MANAGE_SETTINGS"
	PermissionManageBundle       Permission = "MANAGE_BUNDLE"
	PermissionManageRepositories Permission = "MANAGE_REPOSITORIES"
	PermissionViewUsers          Permission = "VIEW_USERS"

	// Resource
	PermissionViewResource         Permission = "VIEW_RESOURCE"
	PermissionModifyResource       Permission = "MODIFY_RESOURCE"
	PermissionDeleteResource       Permission = "DELETE_RESOURCE"
	PermissionCreateChildResources Permission = "CREATE_CHILD_RESOURCES"
	PermissionManageAlerts         Permission = "MANAGE_ALERTS"
	PermissionManageMeasurements   Permission = "MANAGE_MEASUREMENTS"
	PermissionConfigureRead        Permission = "CONFIGURE_READ"
	PermissionConfigureWrite       Permission = "CONFIGURE_WRITE"
	PermissionControl              Permission = "CONTROL"
	PermissionManageEvents         Permission = "MANAGE_EVENTS"
	PermissionManageContent        Permission = "MANAGE_CONTENT"
	PermissionManageDrift          Permission = "MANAGE_DRIFT"
)

var globalPermissions = []Permission{
	PermissionManageSecurity,
	PermissionManageInventory,
	PermissionManageSettings,
	PermissionManageBundle,
	PermissionManageRepositories,
	PermissionViewUsers,
}

var resourcePermissions = []Permission{
	PermissionViewResource,
	PermissionModifyResource,
	PermissionDeleteResource,
	PermissionCreateChildResources,
	PermissionManageAlerts,
	PermissionManageMeasurements,
	PermissionConfigureRead,
	PermissionConfigureWrite,
	PermissionControl,
	PermissionManageEvents,
	PermissionManageContent,
	PermissionManageDrift,
}

// GlobalPermissions returns a copy of every global permission.
func GlobalPermissions() []Permission {
	return append([]Permission(nil), globalPermissions...)
}

// ResourcePermissions returns a copy of every resource permission.
func ResourcePermissions() []Permission {
	return append([]Permission(nil), resourcePermissions...)
}

// AllPermissions returns global then resource permissions.
func AllPermissions() []Permission {
	return append(GlobalPermissions(), resourcePermissions...)
}

func (p Permission) IsGlobal() bool {
	for _, g := range globalPermissions {
		if g == p {
			return true
		}
	}
	return false
}

func (p Permission) IsValid() bool {
	if p.IsGlobal() {
		return true
	}
	for _, r := range resourcePermissions {
		if r == p {
			return true
		}
	}
	return false
}

func PermissionValues() []string {
	all := AllPermissions()
	values := make([]string, len(all))
	for i, p := range all {
		values[i] = string(p)
	}
	return values
}
