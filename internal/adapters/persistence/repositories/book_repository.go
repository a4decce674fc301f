package repositories

import (
	"context"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a book by ID
func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Update updates a book
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// List lists books with pagination
func (r *bookRepository) List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	var books []*models.Book
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Offset(offset).Limit(limit).Order("title").Find(&books).Error; err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// ExistsByISBN checks if ISBN exists
func (r *bookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Where("isbn = ?", isbn).Count(&count).Error
	return count > 0, err
}

// Count counts all books
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error
	return count, err
}

// DecrementAvailable takes one available copy. The guard keeps the count
// from going below zero even under concurrent borrows; false means no
// copy was available to take.
func (r *bookRepository) DecrementAvailable(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND copies_available > 0", id).
		UpdateColumn("copies_available", gorm.Expr("copies_available - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementAvailable puts one copy back. The guard keeps the count from
// exceeding total_copies; false means the book was already at capacity.
func (r *bookRepository) IncrementAvailable(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND copies_available < total_copies", id).
		UpdateColumn("copies_available", gorm.Expr("copies_available + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
