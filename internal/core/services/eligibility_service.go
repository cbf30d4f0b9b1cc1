package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coopwelfare/internal/adapters/persistence/models"
	"coopwelfare/internal/adapters/persistence/repositories"
	"coopwelfare/internal/core/domain"
)

// DefaultEligibilityWaitDays applies when no wait period is configured
const DefaultEligibilityWaitDays = 30

// ContributionLookbackMonths is how far back the recent-contribution
// check scans.
const ContributionLookbackMonths = 12

// SettingsProvider supplies the wait period for eligibility checks.
// It is consulted on every evaluation so a changed setting takes
// effect immediately.
type SettingsProvider interface {
	GetInt(ctx context.Context, key string, def int) (int, error)
}

// EligibilityService evaluates health benefit eligibility for members
// and their dependents.
type EligibilityService struct {
	members       repositories.MemberRepository
	dependents    repositories.DependentRepository
	contributions repositories.ContributionRepository
	settings      SettingsProvider
	now           func() time.Time
}

// NewEligibilityService creates a new eligibility service
func NewEligibilityService(
	members repositories.MemberRepository,
	dependents repositories.DependentRepository,
	contributions repositories.ContributionRepository,
	settings SettingsProvider,
) *EligibilityService {
	return &EligibilityService{
		members:       members,
		dependents:    dependents,
		contributions: contributions,
		settings:      settings,
		now:           time.Now,
	}
}

// CheckMember evaluates a member against all three eligibility rules.
// Every rule runs even after one fails, so the caller gets the full
// list of reasons in a fixed order: wait period, member status, recent
// contributions.
func (s *EligibilityService) CheckMember(ctx context.Context, memberID uint) (*domain.MemberEligibility, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	return s.evaluateMember(ctx, member)
}

func (s *EligibilityService) evaluateMember(ctx context.Context, member *models.Member) (*domain.MemberEligibility, error) {
	now := s.now()

	waitDays, err := s.settings.GetInt(ctx, models.SettingEligibilityWaitDays, DefaultEligibilityWaitDays)
	if err != nil {
		return nil, err
	}

	daysSince := int(now.Sub(member.RegistrationDate).Hours() / 24)

	result := &domain.MemberEligibility{
		Eligible:              true,
		Reasons:               []string{},
		DaysSinceRegistration: daysSince,
		WaitDays:              waitDays,
		MemberStatus:          member.Status,
	}

	if daysSince < waitDays {
		result.Eligible = false
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"Member has not completed the required wait period of %d days. Currently %d days since registration.",
			waitDays, daysSince,
		))
	}

	if !member.IsActive() {
		result.Eligible = false
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"Member status is not active. Current status: %s", capitalize(member.Status),
		))
	}

	since := now.AddDate(0, -ContributionLookbackMonths, 0)
	hasRecent, err := s.contributions.HasApprovedSince(ctx, member.ID, since)
	if err != nil {
		return nil, err
	}
	result.HasRecentContributions = hasRecent

	if !hasRecent {
		result.Eligible = false
		result.Reasons = append(result.Reasons,
			"Member does not have approved contributions in the last 12 months.")
	}

	return result, nil
}

// CheckDependent evaluates a dependent. The dependent inherits the
// member's eligibility, and child dependents additionally fail past
// the age cutoff.
func (s *EligibilityService) CheckDependent(ctx context.Context, dependentID uint) (*domain.DependentEligibility, error) {
	dependent, err := s.dependents.GetByID(ctx, dependentID)
	if err != nil {
		return nil, err
	}
	if dependent == nil {
		return nil, domain.ErrDependentNotFound
	}

	member, err := s.members.GetByID(ctx, dependent.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	memberResult, err := s.evaluateMember(ctx, member)
	if err != nil {
		return nil, err
	}

	age := dependent.AgeAt(s.now())

	result := &domain.DependentEligibility{
		Eligible:              memberResult.Eligible,
		Reasons:               append([]string{}, memberResult.Reasons...),
		DependentAge:          age,
		DependentRelationship: dependent.Relationship,
		MemberEligible:        memberResult.Eligible,
	}

	if dependent.Relationship == models.RelationshipChild && age > models.ChildEligibilityMaxAge {
		result.Eligible = false
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"Child dependent is over %d years old. Current age: %d years.",
			models.ChildEligibilityMaxAge, age,
		))
	}

	return result, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
