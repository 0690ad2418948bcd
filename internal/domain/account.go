package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role tags an account with its position in the HR hierarchy.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployee  Role = "employee"
	RoleHR        Role = "hr"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one of the four enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleEmployee, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// Account is a platform user. Email is stored lower-cased and is unique.
// PasswordHash never holds a plaintext value; RefreshToken is empty when no
// session is active.
type Account struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	Phone         string
	Role          Role
	Active        bool
	EmailVerified bool
	RefreshToken  string
	Profile       Profile
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Identity is the slice of an account that travels with an access token.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Identity returns the token-facing view of the account.
func (a Account) Identity() Identity {
	return Identity{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

// Profile carries the role-specific attributes of an account. One concrete
// profile type exists per role instead of a single struct where every field
// is optional.
type Profile interface {
	Role() Role
}

// CandidateStatus tracks a candidate through the hiring pipeline.
type CandidateStatus string

const (
	CandidateNew       CandidateStatus = "New"
	CandidateScheduled CandidateStatus = "Scheduled"
	CandidateSelected  CandidateStatus = "Selected"
	CandidateRejected  CandidateStatus = "Rejected"
)

// ExperienceEntry is one prior engagement on a candidate resume.
type ExperienceEntry struct {
	Company     string `json:"company,omitempty"`
	Role        string `json:"role,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// CandidateProfile holds hiring-pipeline attributes.
type CandidateProfile struct {
	Position   string            `json:"position,omitempty"`
	Status     CandidateStatus   `json:"status,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	ResumeURL  string            `json:"resume_url,omitempty"`
}

func (CandidateProfile) Role() Role { return RoleCandidate }

// EmployeeProfile holds current-employment attributes.
type EmployeeProfile struct {
	Position    string    `json:"position,omitempty"`
	Department  string    `json:"department,omitempty"`
	JoiningDate time.Time `json:"joining_date,omitempty"`
}

func (EmployeeProfile) Role() Role { return RoleEmployee }

// HRProfile holds attributes specific to HR staff.
type HRProfile struct {
	Department string `json:"department,omitempty"`
}

func (HRProfile) Role() Role { return RoleHR }

// AdminProfile carries no extra attributes today.
type AdminProfile struct{}

func (AdminProfile) Role() Role { return RoleAdmin }

// DefaultProfile returns the empty profile variant for a role. Candidates
// start in the "New" pipeline status.
func DefaultProfile(role Role) Profile {
	switch role {
	case RoleEmployee:
		return EmployeeProfile{}
	case RoleHR:
		return HRProfile{}
	case RoleAdmin:
		return AdminProfile{}
	default:
		return CandidateProfile{Status: CandidateNew}
	}
}

// DecodeProfile rebuilds the profile variant from its stored JSON form. The
// role discriminator lives on the account row, not inside the payload.
func DecodeProfile(role Role, raw []byte) (Profile, error) {
	if len(raw) == 0 {
		return DefaultProfile(role), nil
	}
	switch role {
	case RoleCandidate:
		var p CandidateProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode candidate profile: %w", err)
		}
		if p.Status == "" {
			p.Status = CandidateNew
		}
		return p, nil
	case RoleEmployee:
		var p EmployeeProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode employee profile: %w", err)
		}
		return p, nil
	case RoleHR:
		var p HRProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode hr profile: %w", err)
		}
		return p, nil
	case RoleAdmin:
		var p AdminProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode admin profile: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("decode profile: unknown role %q", role)
}

// EncodeProfile serializes the profile variant for storage.
func EncodeProfile(p Profile) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return raw, nil
}
