package services

import (
	"context"
	"sort"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
)

// PopularLimit is how many titles the dashboard ranks
const PopularLimit = 5

// DashboardService aggregates library activity for the admin dashboard
type DashboardService struct {
	memberRepo repositories.MemberRepository
	bookRepo   repositories.BookRepository
	loanRepo   repositories.LoanRepository

	now func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	memberRepo repositories.MemberRepository,
	bookRepo repositories.BookRepository,
	loanRepo repositories.LoanRepository,
) *DashboardService {
	return &DashboardService{
		memberRepo: memberRepo,
		bookRepo:   bookRepo,
		loanRepo:   loanRepo,
		now:        time.Now,
	}
}

// PopularBook is one entry in the most-borrowed ranking
type PopularBook struct {
	BookID      uint   `json:"book_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	BorrowCount int    `json:"borrow_count"`
}

// Summary is the dashboard snapshot
type Summary struct {
	TotalUsers    int64         `json:"total_users"`
	TotalBooks    int64         `json:"total_books"`
	BorrowedBooks int64         `json:"borrowed_books"`
	OverdueBooks  int64         `json:"overdue_books"`
	PopularBooks  []PopularBook `json:"popular_books"`
}

// GetSummary builds a fresh snapshot on every call. Nothing is cached;
// the dashboard must reflect loans opened moments ago.
func (s *DashboardService) GetSummary(ctx context.Context) (*Summary, error) {
	totalUsers, err := s.memberRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalBooks, err := s.bookRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return aggregate(loans, totalUsers, totalBooks, PopularLimit, s.now()), nil
}

// aggregate folds the full loan history into a Summary. Borrowed counts
// open loans only; overdue counts every record overdue at now, open or
// closed, since a late return stays overdue forever; the popularity
// ranking counts every loan ever opened, ties broken by title.
func aggregate(loans []*models.LoanRecord, totalUsers, totalBooks int64, topN int, now time.Time) *Summary {
	summary := &Summary{
		TotalUsers:   totalUsers,
		TotalBooks:   totalBooks,
		PopularBooks: []PopularBook{},
	}

	type bookTally struct {
		book  *models.Book
		count int
	}
	tallies := make(map[uint]*bookTally)

	for _, loan := range loans {
		if loan.IsOpen() {
			summary.BorrowedBooks++
		}
		if loan.IsOverdue(now) {
			summary.OverdueBooks++
		}

		tally, ok := tallies[loan.BookID]
		if !ok {
			tally = &bookTally{book: loan.Book}
			tallies[loan.BookID] = tally
		}
		tally.count++
	}

	ranked := make([]PopularBook, 0, len(tallies))
	for bookID, tally := range tallies {
		entry := PopularBook{BookID: bookID, BorrowCount: tally.count}
		if tally.book != nil {
			entry.Title = tally.book.Title
			entry.Author = tally.book.Author
		}
		ranked = append(ranked, entry)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].BorrowCount != ranked[j].BorrowCount {
			return ranked[i].BorrowCount > ranked[j].BorrowCount
		}
		return ranked[i].Title < ranked[j].Title
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	summary.PopularBooks = ranked

	return summary
}
