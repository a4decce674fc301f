package services

import (
	"context"
	"errors"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/pkg/password"

	"gorm.io/gorm"
)

// Member service errors
var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberNoTaken       = errors.New("member ID already registered")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidRole         = errors.New("invalid role")
	ErrWeakPassword        = errors.New("password does not meet requirements")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrCannotDisableSelf   = errors.New("cannot disable your own account")
)

// MemberService handles directory business logic
type MemberService struct {
	memberRepo repositories.MemberRepository
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repositories.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// RegisterMemberInput represents registration input
type RegisterMemberInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	MemberNo  string `json:"member_no" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Gender    string `json:"gender"`
}

// Register registers a new member. New members default to the Student role.
func (s *MemberService) Register(ctx context.Context, input *RegisterMemberInput) (*models.Member, error) {
	role := input.Role
	if role == "" {
		role = string(domain.RoleStudent)
	}
	if !domain.Role(role).Valid() {
		return nil, ErrInvalidRole
	}
	if !password.Validate(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.memberRepo.ExistsByMemberNo(ctx, input.MemberNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMemberNoTaken
	}

	exists, err = s.memberRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		MemberNo:  input.MemberNo,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  hashed,
		Role:      role,
		Gender:    input.Gender,
		Status:    string(domain.StatusActive),
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// UpdateMemberInput represents update input (admin)
type UpdateMemberInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	Gender    *string `json:"gender"`
	Status    *string `json:"status"`
}

// Update edits a member record. Admins cannot change their own role or
// disable themselves.
func (s *MemberService) Update(ctx context.Context, id, adminID uint, input *UpdateMemberInput) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		member.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		member.LastName = *input.LastName
	}
	if input.Phone != nil {
		member.Phone = *input.Phone
	}
	if input.Gender != nil {
		member.Gender = *input.Gender
	}

	if input.Email != nil && *input.Email != member.Email {
		exists, err := s.memberRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailAlreadyExists
		}
		member.Email = *input.Email
	}

	if input.Role != nil {
		if id == adminID {
			return nil, ErrCannotChangeOwnRole
		}
		if !domain.Role(*input.Role).Valid() {
			return nil, ErrInvalidRole
		}
		member.Role = *input.Role
	}

	if input.Status != nil {
		if *input.Status != string(domain.StatusActive) && *input.Status != string(domain.StatusDisabled) {
			return nil, domain.ErrInvalidInput
		}
		if id == adminID && *input.Status == string(domain.StatusDisabled) {
			return nil, ErrCannotDisableSelf
		}
		member.Status = *input.Status
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// Disable flips a member's status to Disabled. Members are never
// hard-deleted; their loan history must stay resolvable.
func (s *MemberService) Disable(ctx context.Context, id, adminID uint) error {
	if id == adminID {
		return ErrCannotDisableSelf
	}

	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	member.Status = string(domain.StatusDisabled)
	return s.memberRepo.Update(ctx, member)
}

// GetByID gets a member by ID
func (s *MemberService) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// ListMembersOutput represents list output
type ListMembersOutput struct {
	Members []*models.MemberResponse `json:"members"`
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	Limit   int                      `json:"limit"`
}

// List lists members with pagination
func (s *MemberService) List(ctx context.Context, page, limit int) (*ListMembersOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	members, total, err := s.memberRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.MemberResponse, len(members))
	for i, m := range members {
		responses[i] = m.ToResponse()
	}

	return &ListMembersOutput{
		Members: responses,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}
