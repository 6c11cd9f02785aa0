package domain

// SystemRoleID identifies a system-wide role. Role identity is always the
// numeric id; names exist for display only.
type SystemRoleID int64

// System roles. The ids match the seeded system_role rows.
const (
	RoleSystemAdmin       SystemRoleID = 1
	RoleDataAdministrator SystemRoleID = 2
	RoleProjectCreator    SystemRoleID = 3
	RoleMaintainer        SystemRoleID = 4
)

// ProjectRoleID identifies a role scoped to a single project.
type ProjectRoleID int64

// Project roles. The ids match the seeded project_role rows.
const (
	RoleProjectLead   ProjectRoleID = 1
	RoleProjectEditor ProjectRoleID = 2
	RoleProjectViewer ProjectRoleID = 3
)

var systemRoleNames = map[SystemRoleID]string{
	RoleSystemAdmin:       "System Administrator",
	RoleDataAdministrator: "Data Administrator",
	RoleProjectCreator:    "Project Creator",
	RoleMaintainer:        "Maintainer",
}

var projectRoleNames = map[ProjectRoleID]string{
	RoleProjectLead:   "Project Lead",
	RoleProjectEditor: "Project Editor",
	RoleProjectViewer: "Project Viewer",
}

// SystemRoleName returns the display name for a system role id.
func SystemRoleName(id SystemRoleID) (string, bool) {
	name, ok := systemRoleNames[id]
	return name, ok
}

// ProjectRoleName returns the display name for a project role id.
func ProjectRoleName(id ProjectRoleID) (string, bool) {
	name, ok := projectRoleNames[id]
	return name, ok
}

// SystemRoleByName resolves a display name back to a system role id.
func SystemRoleByName(name string) (SystemRoleID, bool) {
	for id, n := range systemRoleNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// ProjectRoleByName resolves a display name back to a project role id.
func ProjectRoleByName(name string) (ProjectRoleID, bool) {
	for id, n := range projectRoleNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// ValidSystemRole reports whether id names a known system role.
func ValidSystemRole(id SystemRoleID) bool {
	_, ok := systemRoleNames[id]
	return ok
}

// ValidProjectRole reports whether id names a known project role.
func ValidProjectRole(id ProjectRoleID) bool {
	_, ok := projectRoleNames[id]
	return ok
}
