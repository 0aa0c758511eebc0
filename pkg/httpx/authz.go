package httpx

import "slices"

// RoleAllowed reports whether role is in allowed. An empty allow-list admits
// any role. Comparison is exact and case-sensitive.
func RoleAllowed(role string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	return slices.Contains(allowed, role)
}
