package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoanRecordIsOverdue(t *testing.T) {
	due := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)

	timePtr := func(tm time.Time) *time.Time { return &tm }

	tests := []struct {
		name   string
		record LoanRecord
		now    time.Time
		want   bool
	}{
		{
			name:   "open before due",
			record: LoanRecord{DueDate: due},
			now:    due.Add(-time.Hour),
			want:   false,
		},
		{
			name:   "open exactly at due",
			record: LoanRecord{DueDate: due},
			now:    due,
			want:   false,
		},
		{
			name:   "open past due",
			record: LoanRecord{DueDate: due},
			now:    due.Add(time.Second),
			want:   true,
		},
		{
			name:   "returned on time stays clean even later",
			record: LoanRecord{DueDate: due, ReturnedAt: timePtr(due.Add(-time.Hour))},
			now:    due.AddDate(0, 1, 0),
			want:   false,
		},
		{
			name:   "returned late stays overdue forever",
			record: LoanRecord{DueDate: due, ReturnedAt: timePtr(due.Add(time.Hour))},
			now:    due.AddDate(1, 0, 0),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.IsOverdue(tt.now))
		})
	}
}

func TestLoanRecordIsOpen(t *testing.T) {
	returned := time.Now()

	open := LoanRecord{}
	assert.True(t, open.IsOpen())

	closed := LoanRecord{ReturnedAt: &returned}
	assert.False(t, closed.IsOpen())
}

func TestMemberIsActive(t *testing.T) {
	assert.True(t, (&Member{Status: "Active"}).IsActive())
	assert.False(t, (&Member{Status: "Disabled"}).IsActive())
	assert.False(t, (&Member{}).IsActive())
}

func TestLoanRecordToResponse(t *testing.T) {
	record := &LoanRecord{
		ID:       1,
		MemberID: 2,
		BookID:   3,
		DueDate:  time.Now().AddDate(0, 0, 7),
		Member:   &Member{FirstName: "Alice", LastName: "Nguyen"},
		Book:     &Book{Title: "Dune"},
	}

	resp := record.ToResponse()
	assert.Equal(t, "Alice Nguyen", resp.MemberName)
	assert.Equal(t, "Dune", resp.BookTitle)
	assert.False(t, resp.IsOverdue)

	bare := &LoanRecord{ID: 1, DueDate: time.Now().AddDate(0, 0, 7)}
	resp = bare.ToResponse()
	assert.Empty(t, resp.MemberName)
	assert.Empty(t, resp.BookTitle)
}
