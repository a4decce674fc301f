package services

import (
	"context"
	"errors"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Catalog service errors
var (
	ErrBookNotFound         = errors.New("book not found")
	ErrISBNAlreadyExists    = errors.New("a book with this ISBN already exists")
	ErrInvalidPublishYear   = errors.New("publication year is invalid")
	ErrInvalidCopyCount     = errors.New("total copies must be at least 1")
	ErrCopiesBelowOpenLoans = errors.New("total copies cannot drop below currently borrowed copies")
)

// CatalogService handles book catalog business logic
type CatalogService struct {
	bookRepo repositories.BookRepository
	loanRepo repositories.LoanRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(bookRepo repositories.BookRepository, loanRepo repositories.LoanRepository) *CatalogService {
	return &CatalogService{
		bookRepo: bookRepo,
		loanRepo: loanRepo,
	}
}

// CreateBookInput represents create book input
type CreateBookInput struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre"`
	Category    string `json:"category"`
	ISBN        string `json:"isbn" validate:"required"`
	PublishYear int    `json:"publish_year" validate:"required"`
	TotalCopies int    `json:"total_copies" validate:"required,gte=1"`
}

// Create registers a new book. All copies start available.
func (s *CatalogService) Create(ctx context.Context, input *CreateBookInput) (*models.Book, error) {
	if input.PublishYear < 1000 || input.PublishYear > time.Now().Year() {
		return nil, ErrInvalidPublishYear
	}
	if input.TotalCopies < 1 {
		return nil, ErrInvalidCopyCount
	}

	exists, err := s.bookRepo.ExistsByISBN(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrISBNAlreadyExists
	}

	book := &models.Book{
		Title:           input.Title,
		Author:          input.Author,
		Genre:           input.Genre,
		Category:        input.Category,
		ISBN:            input.ISBN,
		PublishYear:     input.PublishYear,
		TotalCopies:     input.TotalCopies,
		CopiesAvailable: input.TotalCopies,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// UpdateBookInput represents update book input
type UpdateBookInput struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *string `json:"genre"`
	Category    *string `json:"category"`
	PublishYear *int    `json:"publish_year"`
	TotalCopies *int    `json:"total_copies"`
}

// Update edits a book. Changing total copies re-derives copies_available
// from the open loan count so the catalog invariant survives the edit.
func (s *CatalogService) Update(ctx context.Context, id uint, input *UpdateBookInput) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Genre != nil {
		book.Genre = *input.Genre
	}
	if input.Category != nil {
		book.Category = *input.Category
	}
	if input.PublishYear != nil {
		if *input.PublishYear < 1000 || *input.PublishYear > time.Now().Year() {
			return nil, ErrInvalidPublishYear
		}
		book.PublishYear = *input.PublishYear
	}

	if input.TotalCopies != nil {
		if *input.TotalCopies < 1 {
			return nil, ErrInvalidCopyCount
		}
		openLoans, err := s.loanRepo.CountOpenByBook(ctx, book.ID)
		if err != nil {
			return nil, err
		}
		if int64(*input.TotalCopies) < openLoans {
			return nil, ErrCopiesBelowOpenLoans
		}
		book.TotalCopies = *input.TotalCopies
		book.CopiesAvailable = *input.TotalCopies - int(openLoans)
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetByID gets a book by ID
func (s *CatalogService) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// ListBooksOutput represents list output
type ListBooksOutput struct {
	Books []*models.BookResponse `json:"books"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// List lists books with pagination
func (s *CatalogService) List(ctx context.Context, page, limit int) (*ListBooksOutput, error) {
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
	books, total, err := s.bookRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.BookResponse, len(books))
	for i, b := range books {
		responses[i] = b.ToResponse()
	}

	return &ListBooksOutput{
		Books: responses,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}
