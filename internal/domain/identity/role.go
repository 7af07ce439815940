package identity

// Role is one of the four staff tiers. It decides both route access and pay type.
type Role string

const (
	RoleDistrictManager Role = "DM"
	RoleStoreManager    Role = "SM"
	RoleShiftLeader     Role = "SL"
	RoleSalesAssociate  Role = "SA"
)

// AllRoles lists the roles from most to least privileged
var AllRoles = []Role{RoleDistrictManager, RoleStoreManager, RoleShiftLeader, RoleSalesAssociate}

// IsValid checks if the role is one of the known tiers
func (r Role) IsValid() bool {
	switch r {
	case RoleDistrictManager, RoleStoreManager, RoleShiftLeader, RoleSalesAssociate:
		return true
	}
	return false
}

// String returns the role code
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the human readable title
func (r Role) DisplayName() string {
	switch r {
	case RoleDistrictManager:
		return "District Manager"
	case RoleStoreManager:
		return "Store Manager"
	case RoleShiftLeader:
		return "Shift Leader"
	case RoleSalesAssociate:
		return "Sales Associate"
	}
	return string(r)
}

// IsManager reports whether the role is paid a base salary
func (r Role) IsManager() bool {
	return r == RoleDistrictManager || r == RoleStoreManager
}

// IsChainWide reports whether the role sees every store
func (r Role) IsChainWide() bool {
	return r == RoleDistrictManager
}

// rank orders roles for "can manage" checks; lower is more senior
func (r Role) rank() int {
	for i, role := range AllRoles {
		if role == r {
			return i
		}
	}
	return len(AllRoles)
}

// CanManage reports whether a user holding r may create or edit a user holding other.
// A DM manages everyone. A SM manages SL and SA. Nobody else manages users.
func (r Role) CanManage(other Role) bool {
	switch r {
	case RoleDistrictManager:
		return true
	case RoleStoreManager:
		return other.rank() > r.rank()
	}
	return false
}

// Permissions returns the permission codes granted to the role
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission checks a single permission code
func (r Role) HasPermission(code string) bool {
	for _, p := range rolePermissions[r] {
		if p == code {
			return true
		}
	}
	return false
}
