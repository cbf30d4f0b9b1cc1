package repositories

import (
	"context"
	"errors"

	"coopwelfare/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a member by ID with relations. A missing row returns
// nil without an error.
func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Preload("State").
		Preload("Lga").
		Preload("Dependents").
		First(&member, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetByRegistrationNo(ctx context.Context, regNo string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("registration_no = ?", regNo).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Delete soft deletes a member
func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Member{}, id).Error
}

func (r *memberRepository) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	r.db.WithContext(ctx).Model(&models.Member{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("State").
		Preload("Lga").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error

	return members, total, err
}

// Search searches members by name or registration number
func (r *memberRepository) Search(ctx context.Context, query string, limit int) ([]*models.Member, error) {
	var members []*models.Member
	searchQuery := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("registration_no LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			searchQuery, searchQuery, searchQuery).
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// dependentRepository implements DependentRepository
type dependentRepository struct {
	db *gorm.DB
}

// NewDependentRepository creates a new dependent repository
func NewDependentRepository(db *gorm.DB) DependentRepository {
	return &dependentRepository{db: db}
}

func (r *dependentRepository) Create(ctx context.Context, dependent *models.Dependent) error {
	return r.db.WithContext(ctx).Create(dependent).Error
}

// GetByID gets a dependent by ID with its member preloaded
func (r *dependentRepository) GetByID(ctx context.Context, id uint) (*models.Dependent, error) {
	var dependent models.Dependent
	err := r.db.WithContext(ctx).
		Preload("Member").
		First(&dependent, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dependent, nil
}

func (r *dependentRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Dependent, error) {
	var dependents []*models.Dependent
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at ASC").
		Find(&dependents).Error
	return dependents, err
}

func (r *dependentRepository) Update(ctx context.Context, dependent *models.Dependent) error {
	return r.db.WithContext(ctx).Save(dependent).Error
}

// Delete soft deletes a dependent
func (r *dependentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Dependent{}, id).Error
}
