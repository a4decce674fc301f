package repositories

import (
	"context"
	"time"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan record repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan record
func (r *loanRepository) Create(ctx context.Context, record *models.LoanRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID gets a loan record by ID
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.LoanRecord, error) {
	var record models.LoanRecord
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Book").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update updates a loan record
func (r *loanRepository) Update(ctx context.Context, record *models.LoanRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// List lists loan records with pagination, newest first
func (r *loanRepository) List(ctx context.Context, offset, limit int) ([]*models.LoanRecord, int64, error) {
	var records []*models.LoanRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.LoanRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Book").
		Order("borrowed_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListByMember lists all loan records for one member, newest first
func (r *loanRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.LoanRecord, error) {
	var records []*models.LoanRecord
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("member_id = ?", memberID).
		Order("borrowed_at DESC").
		Find(&records).Error
	return records, err
}

// ListAll returns a full snapshot for dashboard aggregation
func (r *loanRepository) ListAll(ctx context.Context) ([]*models.LoanRecord, error) {
	var records []*models.LoanRecord
	err := r.db.WithContext(ctx).
		Preload("Book").
		Find(&records).Error
	return records, err
}

// ListOpenOverdue lists open records whose due date has passed
func (r *loanRepository) ListOpenOverdue(ctx context.Context, now time.Time) ([]*models.LoanRecord, error) {
	var records []*models.LoanRecord
	err := r.db.WithContext(ctx).
		Where("returned_at IS NULL AND due_date < ?", now).
		Find(&records).Error
	return records, err
}

// CountOpenByBook counts open loan records for one book
func (r *loanRepository) CountOpenByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LoanRecord{}).
		Where("book_id = ? AND returned_at IS NULL", bookID).
		Count(&count).Error
	return count, err
}
