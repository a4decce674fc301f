package domain

// Capability is a named permission granted to a role. Handlers never check
// roles directly; every route consults this table exactly once through
// PermittedActions/Can.
type Capability string

const (
	CapViewCatalog     Capability = "ViewCatalog"
	CapManageCatalog   Capability = "ManageCatalog"
	CapViewDirectory   Capability = "ViewDirectory"
	CapManageDirectory Capability = "ManageDirectory"
	CapViewDashboard   Capability = "ViewDashboard"
	CapInitiateLoan    Capability = "InitiateLoan"
	CapInitiateReturn  Capability = "InitiateReturn"
	CapPayOwnFine      Capability = "PayOwnFine"
)

// roleCapabilities is the single source of truth for role-based access.
// Students may only initiate loans for themselves and pay their own fines;
// that ownership check lives with the loan lifecycle, not here.
var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapViewCatalog,
		CapManageCatalog,
		CapViewDirectory,
		CapManageDirectory,
		CapViewDashboard,
		CapInitiateLoan,
		CapInitiateReturn,
		CapPayOwnFine,
	},
	RoleStudent: {
		CapViewCatalog,
		CapInitiateLoan,
		CapPayOwnFine,
	},
}

// PermittedActions returns the capability set for a role.
// Unknown roles (including the anonymous empty role) get an empty set.
func PermittedActions(role Role) map[Capability]bool {
	caps := make(map[Capability]bool)
	for _, c := range roleCapabilities[role] {
		caps[c] = true
	}
	return caps
}

// Can reports whether the role holds the given capability
func Can(role Role, cap Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}

// IsSelfOrAdmin is the admin-override rule for member-owned resources:
// admins may act on any member's behalf, everyone else only on their own.
func IsSelfOrAdmin(role Role, selfID, targetID uint) bool {
	if role == RoleAdmin {
		return true
	}
	return selfID != 0 && selfID == targetID
}
