package constants

import "fmt"

const (
	RolePastor = "pastor"
	RoleMaster = "master"
	RoleLeader = "leader"
	RoleMember = "member"
)

const (
	ErrOnlySchedulersCanAccess = "Only pastor, master or leader may use %s."
	ErrOnlyOwnersCanAccess     = "Only pastor or master may use %s."
)

func RoleErrorScheduler(feature string) string {
	return fmt.Sprintf(ErrOnlySchedulersCanAccess, feature)
}

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}

// ==========================
// Grouped role slices
// ==========================
var (
	AllRoles = []string{
		RolePastor,
		RoleMaster,
		RoleLeader,
		RoleMember,
	}

	// SchedulerRoles may attach team members and setlists to an instance.
	SchedulerRoles = []string{
		RolePastor,
		RoleMaster,
		RoleLeader,
	}

	// OwnerRoles may create meetings and read the audit trail.
	OwnerRoles = []string{
		RolePastor,
		RoleMaster,
	}
)

// HasRole reports whether role is one of allowed (exact match).
func HasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
