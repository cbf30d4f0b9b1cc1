package domain

import "strings"

// Role represents user role in the system
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleFinance Role = "FINANCE"
	RoleMember  Role = "MEMBER"
)

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// MemberEligibility is the structured outcome of a member health
// benefit check. Reasons holds one entry per failed check, in check
// order: wait period, member status, recent contributions.
type MemberEligibility struct {
	Eligible               bool     `json:"eligible"`
	Reasons                []string `json:"reasons"`
	DaysSinceRegistration  int      `json:"days_since_registration"`
	WaitDays               int      `json:"wait_days"`
	MemberStatus           string   `json:"member_status"`
	HasRecentContributions bool     `json:"has_recent_contributions"`
}

// Explanation renders a single human-readable summary line.
func (e *MemberEligibility) Explanation() string {
	if e.Eligible {
		return "This member is eligible for health benefits."
	}
	return "This member is not eligible for health benefits. " + strings.Join(e.Reasons, " ")
}

// DependentEligibility is the structured outcome of a dependent check.
// It inherits the member's reasons and may append an age reason for
// child dependents.
type DependentEligibility struct {
	Eligible              bool     `json:"eligible"`
	Reasons               []string `json:"reasons"`
	DependentAge          int      `json:"dependent_age"`
	DependentRelationship string   `json:"dependent_relationship"`
	MemberEligible        bool     `json:"member_eligible"`
}

// Explanation renders a single human-readable summary line.
func (e *DependentEligibility) Explanation() string {
	if e.Eligible {
		return "This dependent is eligible for health benefits."
	}
	return "This dependent is not eligible for health benefits. " + strings.Join(e.Reasons, " ")
}
