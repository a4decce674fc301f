package services

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/config"
	"shelfwise/internal/core/domain"

	"gorm.io/gorm"
)

// Loan service errors
var (
	ErrLoanNotFound      = errors.New("loan record not found")
	ErrBorrowerNotFound  = errors.New("borrower not found")
	ErrBorrowerDisabled  = errors.New("borrower account is disabled")
	ErrBookNotFoundLoan  = errors.New("book not found")
	ErrNoCopiesAvailable = errors.New("no copies of this book are available")
	ErrDueDateNotFuture  = errors.New("due date must be in the future")
	ErrAlreadyReturned   = errors.New("loan record is already returned")
	ErrNoOutstandingFine = errors.New("no outstanding fine on this record")
	ErrFineAlreadyPaid   = errors.New("fine has already been paid")
)

// LoanService owns the loan lifecycle: a record moves from open
// (returned_at NULL) to closed, with fine settlement as a final step.
// All preconditions are re-checked here against the database; handlers
// only translate errors to HTTP statuses.
type LoanService struct {
	loanRepo   repositories.LoanRepository
	bookRepo   repositories.BookRepository
	memberRepo repositories.MemberRepository

	defaultLoanDays int
	fineDailyRate   float64
	now             func() time.Time
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	bookRepo repositories.BookRepository,
	memberRepo repositories.MemberRepository,
	loanCfg config.LoanConfig,
) *LoanService {
	return &LoanService{
		loanRepo:        loanRepo,
		bookRepo:        bookRepo,
		memberRepo:      memberRepo,
		defaultLoanDays: loanCfg.DefaultLoanDays,
		fineDailyRate:   loanCfg.FineDailyRate,
		now:             time.Now,
	}
}

// BorrowInput represents borrow input. A zero DueDate means the default
// loan period.
type BorrowInput struct {
	MemberID uint      `json:"member_id" validate:"required"`
	BookID   uint      `json:"book_id" validate:"required"`
	DueDate  time.Time `json:"due_date"`
}

// Borrow opens a new loan record and takes one available copy of the book.
// The copy is taken through a guarded decrement, so two concurrent borrows
// of the last copy cannot both succeed.
func (s *LoanService) Borrow(ctx context.Context, input *BorrowInput) (*models.LoanRecord, error) {
	now := s.now()
	if input.DueDate.IsZero() {
		input.DueDate = now.AddDate(0, 0, s.defaultLoanDays)
	}
	if !input.DueDate.After(now) {
		return nil, ErrDueDateNotFuture
	}

	member, err := s.memberRepo.GetByID(ctx, input.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBorrowerNotFound
		}
		return nil, err
	}
	if !member.IsActive() {
		return nil, ErrBorrowerDisabled
	}

	book, err := s.bookRepo.GetByID(ctx, input.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFoundLoan
		}
		return nil, err
	}
	if book.CopiesAvailable <= 0 {
		return nil, ErrNoCopiesAvailable
	}

	taken, err := s.bookRepo.DecrementAvailable(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	if !taken {
		// Someone else took the last copy between the read and the decrement
		return nil, ErrNoCopiesAvailable
	}

	record := &models.LoanRecord{
		MemberID:   member.ID,
		BookID:     book.ID,
		BorrowedAt: now,
		DueDate:    input.DueDate,
	}

	if err := s.loanRepo.Create(ctx, record); err != nil {
		// Put the copy back so a failed create leaves no trace
		if _, incErr := s.bookRepo.IncrementAvailable(ctx, book.ID); incErr != nil {
			log.Printf("❌ Failed to restore copy count for book %d: %v", book.ID, incErr)
		}
		return nil, err
	}

	record.Member = member
	record.Book = book
	return record, nil
}

// Return closes an open loan record: sets returned_at, settles the fine
// amount against the due date, and puts the copy back. Returning an
// already-closed record is rejected so the copy count is never
// incremented twice for one loan.
func (s *LoanService) Return(ctx context.Context, recordID uint) (*models.LoanRecord, error) {
	record, err := s.loanRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	if !record.IsOpen() {
		return nil, ErrAlreadyReturned
	}

	now := s.now()
	record.ReturnedAt = &now
	record.FineAmount = s.fineFor(record.DueDate, now)

	if err := s.loanRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	returned, err := s.bookRepo.IncrementAvailable(ctx, record.BookID)
	if err != nil {
		return nil, err
	}
	if !returned {
		// Book already at capacity; counts drifted somewhere else
		log.Printf("⚠️ Book %d already at full capacity on return of record %d", record.BookID, record.ID)
	}

	return record, nil
}

// PayFine settles the fine on a record. Only the borrower or an admin may
// pay, and paying twice is rejected rather than silently repeated.
func (s *LoanService) PayFine(ctx context.Context, recordID, payerID uint, payerRole domain.Role) (*models.LoanRecord, error) {
	record, err := s.loanRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	if record.FineAmount <= 0 {
		return nil, ErrNoOutstandingFine
	}
	if record.FinePaid {
		return nil, ErrFineAlreadyPaid
	}
	if payerRole != domain.RoleAdmin && record.MemberID != payerID {
		return nil, domain.ErrForbidden
	}

	record.FinePaid = true
	if err := s.loanRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// GetByID gets a loan record by ID
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.LoanRecord, error) {
	record, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return record, nil
}

// ListInput represents list input
type ListInput struct {
	Page  int
	Limit int
}

// ListOutput represents list output
type ListOutput struct {
	Records []*models.LoanRecordResponse `json:"records"`
	Total   int64                        `json:"total"`
	Page    int                          `json:"page"`
	Limit   int                          `json:"limit"`
}

// List lists loan records with pagination
func (s *LoanService) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit
	records, total, err := s.loanRepo.List(ctx, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.LoanRecordResponse, len(records))
	for i, r := range records {
		responses[i] = r.ToResponse()
	}

	return &ListOutput{
		Records: responses,
		Total:   total,
		Page:    input.Page,
		Limit:   input.Limit,
	}, nil
}

// ListByMember lists all loan records for one member
func (s *LoanService) ListByMember(ctx context.Context, memberID uint) ([]*models.LoanRecordResponse, error) {
	records, err := s.loanRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.LoanRecordResponse, len(records))
	for i, r := range records {
		responses[i] = r.ToResponse()
	}
	return responses, nil
}

// AccrueFines re-computes the running fine on every open overdue record so
// member views and the dashboard show the amount owed before the book comes
// back. Returns how many records were updated. Runs from the daily cron.
func (s *LoanService) AccrueFines(ctx context.Context) (int, error) {
	now := s.now()
	records, err := s.loanRepo.ListOpenOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, record := range records {
		fine := s.fineFor(record.DueDate, now)
		if fine <= record.FineAmount {
			continue
		}
		record.FineAmount = fine
		if err := s.loanRepo.Update(ctx, record); err != nil {
			log.Printf("❌ Failed to accrue fine on record %d: %v", record.ID, err)
			continue
		}
		updated++
	}

	return updated, nil
}

// fineFor computes the fine owed when a loan due at `due` is (or would be)
// settled at `at`: a flat daily rate times the number of started days late.
func (s *LoanService) fineFor(due, at time.Time) float64 {
	if !at.After(due) {
		return 0
	}
	daysLate := int(math.Ceil(at.Sub(due).Hours() / 24))
	return s.fineDailyRate * float64(daysLate)
}
