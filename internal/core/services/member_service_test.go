package services

import (
	"context"
	"testing"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterInput() *RegisterMemberInput {
	return &RegisterMemberInput{
		FirstName: "Alice",
		LastName:  "Nguyen",
		MemberNo:  "LIB-1000",
		Email:     "alice@example.com",
		Password:  "secret123",
	}
}

func TestRegisterMember(t *testing.T) {
	t.Run("defaults to the Student role and hashes the password", func(t *testing.T) {
		svc := NewMemberService(newFakeMemberRepo())

		member, err := svc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)

		assert.Equal(t, "Student", member.Role)
		assert.Equal(t, "Active", member.Status)
		assert.NotEqual(t, "secret123", member.Password)
		assert.True(t, password.Verify("secret123", member.Password))
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		svc := NewMemberService(newFakeMemberRepo())

		input := validRegisterInput()
		input.Role = "Librarian"

		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		svc := NewMemberService(newFakeMemberRepo())

		input := validRegisterInput()
		input.Password = "abc"

		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("rejects duplicate member number and email", func(t *testing.T) {
		svc := NewMemberService(newFakeMemberRepo())

		_, err := svc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)

		dup := validRegisterInput()
		dup.Email = "other@example.com"
		_, err = svc.Register(context.Background(), dup)
		assert.ErrorIs(t, err, ErrMemberNoTaken)

		dup = validRegisterInput()
		dup.MemberNo = "LIB-2000"
		_, err = svc.Register(context.Background(), dup)
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}

func TestUpdateMember(t *testing.T) {
	seed := func(t *testing.T) (*MemberService, *models.Member, *models.Member) {
		t.Helper()
		repo := newFakeMemberRepo()
		svc := NewMemberService(repo)

		admin := &models.Member{MemberNo: "LIB-0001", Email: "admin@example.com", Role: "Admin", Status: "Active"}
		require.NoError(t, repo.Create(context.Background(), admin))

		student, err := svc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)
		return svc, admin, student
	}

	strPtr := func(s string) *string { return &s }

	t.Run("admin edits another member", func(t *testing.T) {
		svc, admin, student := seed(t)

		updated, err := svc.Update(context.Background(), student.ID, admin.ID, &UpdateMemberInput{
			Phone: strPtr("555-0100"),
			Role:  strPtr("Admin"),
		})
		require.NoError(t, err)
		assert.Equal(t, "555-0100", updated.Phone)
		assert.Equal(t, "Admin", updated.Role)
	})

	t.Run("admin cannot change own role", func(t *testing.T) {
		svc, admin, _ := seed(t)

		_, err := svc.Update(context.Background(), admin.ID, admin.ID, &UpdateMemberInput{
			Role: strPtr("Student"),
		})
		assert.ErrorIs(t, err, ErrCannotChangeOwnRole)
	})

	t.Run("admin cannot disable self via status", func(t *testing.T) {
		svc, admin, _ := seed(t)

		_, err := svc.Update(context.Background(), admin.ID, admin.ID, &UpdateMemberInput{
			Status: strPtr("Disabled"),
		})
		assert.ErrorIs(t, err, ErrCannotDisableSelf)
	})

	t.Run("email change collides with an existing member", func(t *testing.T) {
		svc, admin, student := seed(t)

		_, err := svc.Update(context.Background(), student.ID, admin.ID, &UpdateMemberInput{
			Email: strPtr(admin.Email),
		})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}

func TestDisableMember(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	admin := &models.Member{MemberNo: "LIB-0001", Email: "admin@example.com", Role: "Admin", Status: "Active"}
	require.NoError(t, repo.Create(context.Background(), admin))

	student, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	t.Run("flips status instead of deleting", func(t *testing.T) {
		require.NoError(t, svc.Disable(context.Background(), student.ID, admin.ID))

		got, err := svc.GetByID(context.Background(), student.ID)
		require.NoError(t, err)
		assert.Equal(t, "Disabled", got.Status)
		assert.False(t, got.IsActive())
	})

	t.Run("cannot disable self", func(t *testing.T) {
		err := svc.Disable(context.Background(), admin.ID, admin.ID)
		assert.ErrorIs(t, err, ErrCannotDisableSelf)
	})

	t.Run("unknown member", func(t *testing.T) {
		err := svc.Disable(context.Background(), 999, admin.ID)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}
