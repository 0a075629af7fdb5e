package domain

type Role string

const (
	RoleRecipient  Role = "recipient"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

type Capability int

const (
	CapRequestPayout Capability = iota
	CapManagePayouts
	CapManageLimits
	CapRunReconcile
)

var roleCaps = map[Role]map[Capability]struct{}{
	RoleRecipient: {
		CapRequestPayout: {},
	},
	RoleAdmin: {
		CapRequestPayout: {},
		CapManagePayouts: {},
		CapRunReconcile:  {},
	},
	RoleSuperAdmin: {
		CapRequestPayout: {},
		CapManagePayouts: {},
		CapManageLimits:  {},
		CapRunReconcile:  {},
	},
}

func (r Role) Valid() bool {
	_, ok := roleCaps[r]
	return ok
}

func (r Role) Can(c Capability) bool {
	caps, ok := roleCaps[r]
	if !ok {
		return false
	}
	_, ok = caps[c]
	return ok
}
