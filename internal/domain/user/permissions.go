// internal/domain/user/permissions.go
package user

// Permission is a closed enum of permission keys. String-keyed maps coming in
// from storage or tokens are normalized through ParsePermission so unknown
// keys never propagate.
type Permission string

const (
	PermissionManageUsers     Permission = "manage_users"
	PermissionManageCatalog   Permission = "manage_catalog"
	PermissionManagePartners  Permission = "manage_partners"
	PermissionManageOrders    Permission = "manage_orders"
	PermissionAdjustInventory Permission = "adjust_inventory"
	PermissionManageTreasury  Permission = "manage_treasury"
	PermissionViewReports     Permission = "view_reports"
)

// AllPermissions lists every known permission key
var AllPermissions = []Permission{
	PermissionManageUsers,
	PermissionManageCatalog,
	PermissionManagePartners,
	PermissionManageOrders,
	PermissionAdjustInventory,
	PermissionManageTreasury,
	PermissionViewReports,
}

// roleDefaults maps each role to its default permission set
var roleDefaults = map[Role][]Permission{
	RoleAdmin: AllPermissions,
	RoleManager: {
		PermissionManageCatalog,
		PermissionManagePartners,
		PermissionManageOrders,
		PermissionAdjustInventory,
		PermissionManageTreasury,
		PermissionViewReports,
	},
	RoleStaff: {
		PermissionManageOrders,
		PermissionViewReports,
	},
}

// DefaultPermissions returns the default permission set for a role
func DefaultPermissions(role Role) map[Permission]bool {
	perms := make(map[Permission]bool, len(AllPermissions))
	for _, p := range roleDefaults[role] {
		perms[p] = true
	}
	return perms
}

// ParsePermission validates a raw permission key against the closed enum
func ParsePermission(key string) (Permission, bool) {
	for _, p := range AllPermissions {
		if string(p) == key {
			return p, true
		}
	}
	return "", false
}

// NormalizePermissions filters a string-keyed permission map down to known
// keys with true values
func NormalizePermissions(raw map[string]bool) map[Permission]bool {
	perms := make(map[Permission]bool)
	for key, granted := range raw {
		if !granted {
			continue
		}
		if p, ok := ParsePermission(key); ok {
			perms[p] = true
		}
	}
	return perms
}
