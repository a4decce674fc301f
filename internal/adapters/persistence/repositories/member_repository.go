package repositories

import (
	"context"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a member by ID
func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByEmail gets a member by email
func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByMemberNo gets a member by external member number
func (r *memberRepository) GetByMemberNo(ctx context.Context, memberNo string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("member_no = ?", memberNo).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update updates a member
func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// List lists members with pagination
func (r *memberRepository) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Offset(offset).Limit(limit).Order("id").Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// ExistsByEmail checks if email exists
func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByMemberNo checks if member number exists
func (r *memberRepository) ExistsByMemberNo(ctx context.Context, memberNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("member_no = ?", memberNo).Count(&count).Error
	return count > 0, err
}

// Count counts all members
func (r *memberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&count).Error
	return count, err
}
