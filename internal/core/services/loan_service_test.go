package services

import (
	"context"
	"testing"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/config"
	"shelfwise/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loanFixture struct {
	svc     *LoanService
	members *fakeMemberRepo
	books   *fakeBookRepo
	loans   *fakeLoanRepo
	now     time.Time
}

func newLoanFixture(t *testing.T) *loanFixture {
	t.Helper()

	members := newFakeMemberRepo()
	books := newFakeBookRepo()
	loans := newFakeLoanRepo()

	svc := NewLoanService(loans, books, members, config.LoanConfig{
		DefaultLoanDays: 14,
		FineDailyRate:   10.0,
	})

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	f := &loanFixture{svc: svc, members: members, books: books, loans: loans, now: now}
	return f
}

func (f *loanFixture) setNow(t time.Time) {
	f.now = t
	f.svc.now = func() time.Time { return t }
}

func (f *loanFixture) addMember(status string) *models.Member {
	m := &models.Member{
		MemberNo:  "LIB-1000",
		FirstName: "Alice",
		LastName:  "Nguyen",
		Email:     "alice@example.com",
		Role:      "Student",
		Status:    status,
	}
	_ = f.members.Create(context.Background(), m)
	return m
}

func (f *loanFixture) addBook(total, available int) *models.Book {
	b := &models.Book{
		Title:           "Dune",
		Author:          "Frank Herbert",
		ISBN:            "9780441172719",
		PublishYear:     1965,
		TotalCopies:     total,
		CopiesAvailable: available,
	}
	_ = f.books.Create(context.Background(), b)
	return b
}

func TestBorrow(t *testing.T) {
	t.Run("takes one copy and opens a record", func(t *testing.T) {
		f := newLoanFixture(t)
		member := f.addMember("Active")
		book := f.addBook(1, 1)

		record, err := f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: member.ID,
			BookID:   book.ID,
			DueDate:  f.now.AddDate(0, 0, 14),
		})
		require.NoError(t, err)

		assert.Equal(t, member.ID, record.MemberID)
		assert.Equal(t, book.ID, record.BookID)
		assert.True(t, record.IsOpen())
		assert.Equal(t, 0, book.CopiesAvailable)
	})

	t.Run("omitted due date falls back to the default loan period", func(t *testing.T) {
		f := newLoanFixture(t)
		member := f.addMember("Active")
		book := f.addBook(1, 1)

		record, err := f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: member.ID,
			BookID:   book.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, f.now.AddDate(0, 0, 14), record.DueDate)
		assert.True(t, record.IsOpen())
	})

	t.Run("rejects when no copies are available and opens no record", func(t *testing.T) {
		f := newLoanFixture(t)
		member := f.addMember("Active")
		book := f.addBook(2, 0)

		_, err := f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: member.ID,
			BookID:   book.ID,
			DueDate:  f.now.AddDate(0, 0, 14),
		})
		assert.ErrorIs(t, err, ErrNoCopiesAvailable)
		assert.Empty(t, f.loans.records)
	})

	t.Run("rejects a due date that is not in the future", func(t *testing.T) {
		f := newLoanFixture(t)
		member := f.addMember("Active")
		book := f.addBook(1, 1)

		_, err := f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: member.ID,
			BookID:   book.ID,
			DueDate:  f.now.AddDate(0, 0, -1),
		})
		assert.ErrorIs(t, err, ErrDueDateNotFuture)
		assert.Equal(t, 1, book.CopiesAvailable)
	})

	t.Run("rejects a disabled borrower", func(t *testing.T) {
		f := newLoanFixture(t)
		member := f.addMember("Disabled")
		book := f.addBook(1, 1)

		_, err := f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: member.ID,
			BookID:   book.ID,
			DueDate:  f.now.AddDate(0, 0, 14),
		})
		assert.ErrorIs(t, err, ErrBorrowerDisabled)
	})

	t.Run("rejects unknown borrower and book", func(t *testing.T) {
		f := newLoanFixture(t)
		member := f.addMember("Active")
		book := f.addBook(1, 1)

		_, err := f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: 999,
			BookID:   book.ID,
			DueDate:  f.now.AddDate(0, 0, 14),
		})
		assert.ErrorIs(t, err, ErrBorrowerNotFound)

		_, err = f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: member.ID,
			BookID:   999,
			DueDate:  f.now.AddDate(0, 0, 14),
		})
		assert.ErrorIs(t, err, ErrBookNotFoundLoan)
	})

	t.Run("puts the copy back when the record insert fails", func(t *testing.T) {
		f := newLoanFixture(t)
		member := f.addMember("Active")
		book := f.addBook(1, 1)
		f.loans.failCreate = true

		_, err := f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: member.ID,
			BookID:   book.ID,
			DueDate:  f.now.AddDate(0, 0, 14),
		})
		require.Error(t, err)
		assert.Equal(t, 1, book.CopiesAvailable)
	})
}

func TestReturn(t *testing.T) {
	borrow := func(t *testing.T, f *loanFixture, dueInDays int) (*models.LoanRecord, *models.Book) {
		t.Helper()
		member := f.addMember("Active")
		book := f.addBook(1, 1)
		record, err := f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: member.ID,
			BookID:   book.ID,
			DueDate:  f.now.AddDate(0, 0, dueInDays),
		})
		require.NoError(t, err)
		return record, book
	}

	t.Run("on time closes the record with no fine", func(t *testing.T) {
		f := newLoanFixture(t)
		record, book := borrow(t, f, 7)

		f.setNow(f.now.AddDate(0, 0, 3))

		returned, err := f.svc.Return(context.Background(), record.ID)
		require.NoError(t, err)

		assert.False(t, returned.IsOpen())
		assert.Equal(t, 0.0, returned.FineAmount)
		assert.Equal(t, 1, book.CopiesAvailable)
	})

	t.Run("late return owes the daily rate per started day", func(t *testing.T) {
		f := newLoanFixture(t)
		record, _ := borrow(t, f, 5)

		// 5 days late
		f.setNow(f.now.AddDate(0, 0, 10))

		returned, err := f.svc.Return(context.Background(), record.ID)
		require.NoError(t, err)
		assert.Equal(t, 50.0, returned.FineAmount)
	})

	t.Run("a partial day late counts as one day", func(t *testing.T) {
		f := newLoanFixture(t)
		record, _ := borrow(t, f, 5)

		f.setNow(f.now.AddDate(0, 0, 5).Add(2 * time.Hour))

		returned, err := f.svc.Return(context.Background(), record.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, returned.FineAmount)
	})

	t.Run("double return is rejected and the copy count is untouched", func(t *testing.T) {
		f := newLoanFixture(t)
		record, book := borrow(t, f, 7)

		f.setNow(f.now.AddDate(0, 0, 1))

		_, err := f.svc.Return(context.Background(), record.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, book.CopiesAvailable)

		_, err = f.svc.Return(context.Background(), record.ID)
		assert.ErrorIs(t, err, ErrAlreadyReturned)
		assert.Equal(t, 1, book.CopiesAvailable)
	})

	t.Run("unknown record", func(t *testing.T) {
		f := newLoanFixture(t)
		_, err := f.svc.Return(context.Background(), 42)
		assert.ErrorIs(t, err, ErrLoanNotFound)
	})
}

func TestPayFine(t *testing.T) {
	lateReturn := func(t *testing.T, f *loanFixture) *models.LoanRecord {
		t.Helper()
		member := f.addMember("Active")
		book := f.addBook(1, 1)
		record, err := f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: member.ID,
			BookID:   book.ID,
			DueDate:  f.now.AddDate(0, 0, 5),
		})
		require.NoError(t, err)

		f.setNow(f.now.AddDate(0, 0, 8))
		returned, err := f.svc.Return(context.Background(), record.ID)
		require.NoError(t, err)
		require.Greater(t, returned.FineAmount, 0.0)
		return returned
	}

	t.Run("borrower pays once, second attempt is rejected", func(t *testing.T) {
		f := newLoanFixture(t)
		record := lateReturn(t, f)

		paid, err := f.svc.PayFine(context.Background(), record.ID, record.MemberID, domain.RoleStudent)
		require.NoError(t, err)
		assert.True(t, paid.FinePaid)

		_, err = f.svc.PayFine(context.Background(), record.ID, record.MemberID, domain.RoleStudent)
		assert.ErrorIs(t, err, ErrFineAlreadyPaid)
	})

	t.Run("admin may pay on behalf of the borrower", func(t *testing.T) {
		f := newLoanFixture(t)
		record := lateReturn(t, f)

		paid, err := f.svc.PayFine(context.Background(), record.ID, 999, domain.RoleAdmin)
		require.NoError(t, err)
		assert.True(t, paid.FinePaid)
	})

	t.Run("another student is forbidden", func(t *testing.T) {
		f := newLoanFixture(t)
		record := lateReturn(t, f)

		_, err := f.svc.PayFine(context.Background(), record.ID, record.MemberID+1, domain.RoleStudent)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("no outstanding fine", func(t *testing.T) {
		f := newLoanFixture(t)
		member := f.addMember("Active")
		book := f.addBook(1, 1)
		record, err := f.svc.Borrow(context.Background(), &BorrowInput{
			MemberID: member.ID,
			BookID:   book.ID,
			DueDate:  f.now.AddDate(0, 0, 5),
		})
		require.NoError(t, err)

		_, err = f.svc.PayFine(context.Background(), record.ID, member.ID, domain.RoleStudent)
		assert.ErrorIs(t, err, ErrNoOutstandingFine)
	})
}

func TestCopiesInvariantAcrossLifecycle(t *testing.T) {
	f := newLoanFixture(t)
	member := f.addMember("Active")
	book := f.addBook(2, 2)

	due := f.now.AddDate(0, 0, 7)

	// Borrow both copies, then a third attempt must fail
	r1, err := f.svc.Borrow(context.Background(), &BorrowInput{MemberID: member.ID, BookID: book.ID, DueDate: due})
	require.NoError(t, err)
	r2, err := f.svc.Borrow(context.Background(), &BorrowInput{MemberID: member.ID, BookID: book.ID, DueDate: due})
	require.NoError(t, err)
	_, err = f.svc.Borrow(context.Background(), &BorrowInput{MemberID: member.ID, BookID: book.ID, DueDate: due})
	assert.ErrorIs(t, err, ErrNoCopiesAvailable)
	assert.Equal(t, 0, book.CopiesAvailable)

	// Return both; the count comes back but never exceeds the total
	f.setNow(f.now.AddDate(0, 0, 1))
	_, err = f.svc.Return(context.Background(), r1.ID)
	require.NoError(t, err)
	_, err = f.svc.Return(context.Background(), r2.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, book.CopiesAvailable)
	assert.LessOrEqual(t, book.CopiesAvailable, book.TotalCopies)
}

func TestAccrueFines(t *testing.T) {
	f := newLoanFixture(t)
	member := f.addMember("Active")
	overdueBook := f.addBook(1, 1)
	currentBook := f.addBook(1, 1)

	overdue, err := f.svc.Borrow(context.Background(), &BorrowInput{
		MemberID: member.ID,
		BookID:   overdueBook.ID,
		DueDate:  f.now.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	current, err := f.svc.Borrow(context.Background(), &BorrowInput{
		MemberID: member.ID,
		BookID:   currentBook.ID,
		DueDate:  f.now.AddDate(0, 0, 30),
	})
	require.NoError(t, err)

	// 3 days past the first due date
	f.setNow(f.now.AddDate(0, 0, 5))

	updated, err := f.svc.AccrueFines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 30.0, overdue.FineAmount)
	assert.Equal(t, 0.0, current.FineAmount)

	// Running the sweep again at the same instant changes nothing
	updated, err = f.svc.AccrueFines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestListByMember(t *testing.T) {
	f := newLoanFixture(t)
	member := f.addMember("Active")
	other := &models.Member{MemberNo: "LIB-2000", FirstName: "Bob", LastName: "Lee", Email: "bob@example.com", Status: "Active"}
	require.NoError(t, f.members.Create(context.Background(), other))

	book := f.addBook(3, 3)
	due := f.now.AddDate(0, 0, 7)

	_, err := f.svc.Borrow(context.Background(), &BorrowInput{MemberID: member.ID, BookID: book.ID, DueDate: due})
	require.NoError(t, err)
	_, err = f.svc.Borrow(context.Background(), &BorrowInput{MemberID: other.ID, BookID: book.ID, DueDate: due})
	require.NoError(t, err)

	records, err := f.svc.ListByMember(context.Background(), member.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, member.ID, records[0].MemberID)
}
