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

// CreateMemberInput carries a new member registration
type CreateMemberInput struct {
	FirstName        string
	LastName         string
	MiddleName       string
	DateOfBirth      *time.Time
	Gender           string
	Email            string
	Phone            string
	Address          string
	StateID          *uint
	LgaID            *uint
	RegistrationDate time.Time
	Nin              *string
	Notes            string
}

// UpdateMemberInput carries member profile changes. Nil fields are
// left untouched.
type UpdateMemberInput struct {
	FirstName  *string
	LastName   *string
	MiddleName *string
	Email      *string
	Phone      *string
	Address    *string
	StateID    *uint
	LgaID      *uint
	Status     *string
	Notes      *string
}

// CreateDependentInput carries a new dependent registration
type CreateDependentInput struct {
	MemberID     uint
	Name         string
	DateOfBirth  time.Time
	Relationship string
	Nin          *string
}

// MemberService handles member and dependent management
type MemberService struct {
	members    repositories.MemberRepository
	dependents repositories.DependentRepository
	now        func() time.Time
}

// NewMemberService creates a new member service
func NewMemberService(members repositories.MemberRepository, dependents repositories.DependentRepository) *MemberService {
	return &MemberService{
		members:    members,
		dependents: dependents,
		now:        time.Now,
	}
}

// Create registers a new member. Registration numbers are generated as
// CWC-<year>-<zero padded sequence seed> from the creation timestamp.
func (s *MemberService) Create(ctx context.Context, input CreateMemberInput) (*models.Member, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, domain.ErrInvalidInput
	}

	regDate := input.RegistrationDate
	if regDate.IsZero() {
		regDate = s.now()
	}

	member := &models.Member{
		RegistrationNo:   s.generateRegistrationNo(),
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		MiddleName:       input.MiddleName,
		DateOfBirth:      input.DateOfBirth,
		Gender:           input.Gender,
		Email:            input.Email,
		Phone:            input.Phone,
		Address:          input.Address,
		StateID:          input.StateID,
		LgaID:            input.LgaID,
		Status:           models.MemberStatusActive,
		RegistrationDate: regDate,
		Nin:              input.Nin,
		Notes:            input.Notes,
	}

	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

func (s *MemberService) generateRegistrationNo() string {
	now := s.now()
	return fmt.Sprintf("CWC-%d-%d", now.Year(), now.UnixNano()%1000000)
}

// GetByID fetches a single member
func (s *MemberService) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}
	return member, nil
}

// Update applies profile changes to a member
func (s *MemberService) Update(ctx context.Context, id uint, input UpdateMemberInput) (*models.Member, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	if input.FirstName != nil {
		member.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		member.LastName = *input.LastName
	}
	if input.MiddleName != nil {
		member.MiddleName = *input.MiddleName
	}
	if input.Email != nil {
		member.Email = *input.Email
	}
	if input.Phone != nil {
		member.Phone = *input.Phone
	}
	if input.Address != nil {
		member.Address = *input.Address
	}
	if input.StateID != nil {
		member.StateID = input.StateID
	}
	if input.LgaID != nil {
		member.LgaID = input.LgaID
	}
	if input.Status != nil {
		switch *input.Status {
		case models.MemberStatusActive, models.MemberStatusInactive, models.MemberStatusSuspended:
			member.Status = *input.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	if input.Notes != nil {
		member.Notes = *input.Notes
	}

	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// Delete soft-deletes a member
func (s *MemberService) Delete(ctx context.Context, id uint) error {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if member == nil {
		return domain.ErrMemberNotFound
	}
	return s.members.Delete(ctx, id)
}

// List returns members page by page
func (s *MemberService) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	return s.members.List(ctx, offset, limit)
}

// Search finds members by name or registration number
func (s *MemberService) Search(ctx context.Context, query string, limit int) ([]*models.Member, error) {
	return s.members.Search(ctx, query, limit)
}

// AddDependent registers a dependent under a member
func (s *MemberService) AddDependent(ctx context.Context, input CreateDependentInput) (*models.Dependent, error) {
	member, err := s.members.GetByID(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	switch input.Relationship {
	case models.RelationshipSpouse, models.RelationshipChild, models.RelationshipOther:
	default:
		return nil, domain.ErrInvalidInput
	}

	if strings.TrimSpace(input.Name) == "" || input.DateOfBirth.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	dependent := &models.Dependent{
		MemberID:     input.MemberID,
		Name:         input.Name,
		DateOfBirth:  input.DateOfBirth,
		Relationship: input.Relationship,
		Nin:          input.Nin,
	}

	if err := s.dependents.Create(ctx, dependent); err != nil {
		return nil, err
	}

	return dependent, nil
}

// ListDependents returns a member's dependents
func (s *MemberService) ListDependents(ctx context.Context, memberID uint) ([]*models.Dependent, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}
	return s.dependents.ListByMember(ctx, memberID)
}

// RemoveDependent soft-deletes a dependent
func (s *MemberService) RemoveDependent(ctx context.Context, id uint) error {
	dependent, err := s.dependents.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if dependent == nil {
		return domain.ErrDependentNotFound
	}
	return s.dependents.Delete(ctx, id)
}
