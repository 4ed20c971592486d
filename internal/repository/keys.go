package repository

// Store key suffixes for the persisted collections. Full keys are
// namespaced with the application prefix, e.g. "homevault:workspaces".
const (
	keyWorkspaces      = "workspaces"
	keyActiveWorkspace = "activeWorkspace"
	keyFamilyMembers   = "familyMembers"
)

// storeKey joins the application prefix and a key suffix
func storeKey(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + ":" + suffix
}

// WorkspacesKey returns the full store key for the workspace collection
func WorkspacesKey(prefix string) string {
	return storeKey(prefix, keyWorkspaces)
}

// ActiveWorkspaceKey returns the full store key for the active workspace id
func ActiveWorkspaceKey(prefix string) string {
	return storeKey(prefix, keyActiveWorkspace)
}

// FamilyMembersKey returns the full store key for the family roster
func FamilyMembersKey(prefix string) string {
	return storeKey(prefix, keyFamilyMembers)
}
