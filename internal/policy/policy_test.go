package policy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dilkhush-raj/hrms/internal/domain"
	"github.com/dilkhush-raj/hrms/internal/policy"
)

func caller(role domain.Role, email string) domain.Identity {
	return domain.Identity{ID: 1, Name: "Caller", Email: email, Role: role}
}

func TestAuthorizeRoleChange(t *testing.T) {
	tests := []struct {
		name    string
		caller  domain.Identity
		target  string
		newRole domain.Role
		wantErr error
	}{
		{
			name:    "candidate denied",
			caller:  caller(domain.RoleCandidate, "c@x.com"),
			target:  "t@x.com",
			newRole: domain.RoleEmployee,
			wantErr: policy.ErrNotAuthorized,
		},
		{
			name:    "employee denied",
			caller:  caller(domain.RoleEmployee, "e@x.com"),
			target:  "t@x.com",
			newRole: domain.RoleEmployee,
			wantErr: policy.ErrNotAuthorized,
		},
		{
			name:    "unknown role rejected",
			caller:  caller(domain.RoleAdmin, "a@x.com"),
			target:  "t@x.com",
			newRole: domain.Role("superuser"),
			wantErr: policy.ErrInvalidRole,
		},
		{
			name:    "hr cannot change own role",
			caller:  caller(domain.RoleHR, "hr@x.com"),
			target:  "HR@X.COM",
			newRole: domain.RoleEmployee,
			wantErr: policy.ErrHRSelfChange,
		},
		{
			name:    "hr cannot assign hr",
			caller:  caller(domain.RoleHR, "hr@x.com"),
			target:  "t@x.com",
			newRole: domain.RoleHR,
			wantErr: policy.ErrHRPrivilegedRole,
		},
		{
			name:    "hr cannot assign admin",
			caller:  caller(domain.RoleHR, "hr@x.com"),
			target:  "t@x.com",
			newRole: domain.RoleAdmin,
			wantErr: policy.ErrHRPrivilegedRole,
		},
		{
			name:    "hr promotes candidate to employee",
			caller:  caller(domain.RoleHR, "hr@x.com"),
			target:  "t@x.com",
			newRole: domain.RoleEmployee,
		},
		{
			name:    "admin assigns hr",
			caller:  caller(domain.RoleAdmin, "a@x.com"),
			target:  "t@x.com",
			newRole: domain.RoleHR,
		},
		{
			name:    "admin changes own role",
			caller:  caller(domain.RoleAdmin, "a@x.com"),
			target:  "a@x.com",
			newRole: domain.RoleEmployee,
		},
		{
			name:    "same role transition allowed",
			caller:  caller(domain.RoleAdmin, "a@x.com"),
			target:  "t@x.com",
			newRole: domain.RoleCandidate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.AuthorizeRoleChange(tt.caller, tt.target, tt.newRole)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAuthorizeDelete(t *testing.T) {
	tests := []struct {
		name    string
		caller  domain.Identity
		target  string
		wantErr error
	}{
		{name: "admin deletes anyone", caller: caller(domain.RoleAdmin, "a@x.com"), target: "t@x.com"},
		{name: "hr deletes anyone", caller: caller(domain.RoleHR, "hr@x.com"), target: "t@x.com"},
		{name: "employee deletes self", caller: caller(domain.RoleEmployee, "e@x.com"), target: "E@x.com"},
		{name: "candidate deletes self", caller: caller(domain.RoleCandidate, "c@x.com"), target: "c@x.com"},
		{
			name:    "employee cannot delete others",
			caller:  caller(domain.RoleEmployee, "e@x.com"),
			target:  "t@x.com",
			wantErr: policy.ErrDeleteNotAllowed,
		},
		{
			name:    "candidate cannot delete others",
			caller:  caller(domain.RoleCandidate, "c@x.com"),
			target:  "t@x.com",
			wantErr: policy.ErrDeleteNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.AuthorizeDelete(tt.caller, tt.target)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
