package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dilkhush-raj/hrms/internal/domain"
)

func TestRoleValid(t *testing.T) {
	require.True(t, domain.RoleCandidate.Valid())
	require.True(t, domain.RoleEmployee.Valid())
	require.True(t, domain.RoleHR.Valid())
	require.True(t, domain.RoleAdmin.Valid())
	require.False(t, domain.Role("superuser").Valid())
	require.False(t, domain.Role("").Valid())
}

func TestDefaultProfileMatchesRole(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleCandidate, domain.RoleEmployee, domain.RoleHR, domain.RoleAdmin} {
		require.Equal(t, role, domain.DefaultProfile(role).Role())
	}

	candidate, ok := domain.DefaultProfile(domain.RoleCandidate).(domain.CandidateProfile)
	require.True(t, ok)
	require.Equal(t, domain.CandidateNew, candidate.Status)
}

func TestProfileEncodeDecode(t *testing.T) {
	original := domain.CandidateProfile{
		Position:  "Backend Engineer",
		Status:    domain.CandidateScheduled,
		ResumeURL: "https://files.example.com/resume.pdf",
		Experience: []domain.ExperienceEntry{
			{Company: "Acme", Role: "Intern", Duration: "6 months"},
		},
	}

	raw, err := domain.EncodeProfile(original)
	require.NoError(t, err)

	decoded, err := domain.DecodeProfile(domain.RoleCandidate, raw)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestDecodeProfileDefaults(t *testing.T) {
	// Empty payloads fall back to the role's default variant.
	profile, err := domain.DecodeProfile(domain.RoleEmployee, nil)
	require.NoError(t, err)
	require.Equal(t, domain.RoleEmployee, profile.Role())

	// Unknown roles are rejected rather than guessed.
	_, err = domain.DecodeProfile(domain.Role("superuser"), []byte(`{}`))
	require.Error(t, err)
}

func TestAccountIdentity(t *testing.T) {
	account := domain.Account{ID: 7, Name: "Jess", Email: "jess@example.com", Role: domain.RoleHR}
	identity := account.Identity()
	require.Equal(t, int64(7), identity.ID)
	require.Equal(t, "Jess", identity.Name)
	require.Equal(t, "jess@example.com", identity.Email)
	require.Equal(t, domain.RoleHR, identity.Role)
}
