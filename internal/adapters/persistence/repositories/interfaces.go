package repositories

import (
	"context"
	"time"

	"shelfwise/internal/adapters/persistence/models"
)

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	GetByMemberNo(ctx context.Context, memberNo string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByMemberNo(ctx context.Context, memberNo string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// BookRepository defines book repository interface.
// DecrementAvailable and IncrementAvailable are guarded single-statement
// updates; they return false when the guard rejects the change, so callers
// can never drive copies_available outside [0, total_copies].
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Count(ctx context.Context) (int64, error)
	DecrementAvailable(ctx context.Context, id uint) (bool, error)
	IncrementAvailable(ctx context.Context, id uint) (bool, error)
}

// LoanRepository defines loan record repository interface
type LoanRepository interface {
	Create(ctx context.Context, record *models.LoanRecord) error
	GetByID(ctx context.Context, id uint) (*models.LoanRecord, error)
	Update(ctx context.Context, record *models.LoanRecord) error
	List(ctx context.Context, offset, limit int) ([]*models.LoanRecord, int64, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.LoanRecord, error)
	ListAll(ctx context.Context) ([]*models.LoanRecord, error)
	ListOpenOverdue(ctx context.Context, now time.Time) ([]*models.LoanRecord, error)
	CountOpenByBook(ctx context.Context, bookID uint) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByMemberID(ctx context.Context, memberID uint) error
	DeleteExpired(ctx context.Context) error
}
