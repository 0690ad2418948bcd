// Package policy is the authorization ruleset for role and deletion
// mutations. It is pure: callers resolve the target account separately, so a
// missing target stays a not-found outcome rather than a denial.
package policy

import (
	"errors"
	"strings"

	"github.com/dilkhush-raj/hrms/internal/domain"
)

var (
	// ErrNotAuthorized denies callers below hr/admin outright.
	ErrNotAuthorized = errors.New("You are not authorized to update user roles")
	// ErrInvalidRole rejects values outside the four enumerated roles.
	ErrInvalidRole = errors.New("Invalid role")
	// ErrHRSelfChange stops HR from touching their own role.
	ErrHRSelfChange = errors.New("HR cannot change their own role")
	// ErrHRPrivilegedRole stops HR from granting hr or admin.
	ErrHRPrivilegedRole = errors.New("HR cannot assign Admin or HR roles")
	// ErrDeleteNotAllowed denies deletes that are neither elevated nor self.
	ErrDeleteNotAllowed = errors.New("You are not authorized to delete this user")
)

// AuthorizeRoleChange checks whether caller may set targetEmail's role to
// newRole. Rules apply in order: caller must be hr or admin; newRole must be
// a known role; hr may neither retarget itself nor hand out hr/admin. Admin
// callers skip the hr restrictions entirely.
func AuthorizeRoleChange(caller domain.Identity, targetEmail string, newRole domain.Role) error {
	if caller.Role != domain.RoleHR && caller.Role != domain.RoleAdmin {
		return ErrNotAuthorized
	}
	if !newRole.Valid() {
		return ErrInvalidRole
	}
	if caller.Role == domain.RoleHR {
		if sameEmail(caller.Email, targetEmail) {
			return ErrHRSelfChange
		}
		if newRole == domain.RoleAdmin || newRole == domain.RoleHR {
			return ErrHRPrivilegedRole
		}
	}
	return nil
}

// AuthorizeDelete checks whether caller may delete the account behind
// targetEmail: allowed for hr/admin, or when deleting their own account.
func AuthorizeDelete(caller domain.Identity, targetEmail string) error {
	if caller.Role == domain.RoleHR || caller.Role == domain.RoleAdmin {
		return nil
	}
	if sameEmail(caller.Email, targetEmail) {
		return nil
	}
	return ErrDeleteNotAllowed
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
