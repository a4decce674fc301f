package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Directory
// ============================================================

// Member represents members table
type Member struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	MemberNo  string         `gorm:"uniqueIndex;size:20;not null" json:"member_no"`
	FirstName string         `gorm:"size:50;not null" json:"first_name"`
	LastName  string         `gorm:"size:50;not null" json:"last_name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone     string         `gorm:"size:20" json:"phone"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'Student'" json:"role"`
	Gender    string         `gorm:"size:10" json:"gender"`
	Status    string         `gorm:"size:20;default:'Active'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string {
	return "members"
}

// IsActive reports whether the member may log in and borrow
func (m *Member) IsActive() bool {
	return m.Status == "Active"
}

// MemberResponse DTO
type MemberResponse struct {
	ID        uint      `json:"id"`
	MemberNo  string    `json:"member_no"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Gender    string    `json:"gender"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		MemberNo:  m.MemberNo,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      m.Role,
		Gender:    m.Gender,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MemberID  uint       `gorm:"index;not null" json:"member_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	Member    Member     `gorm:"foreignKey:MemberID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog
// ============================================================

// Book represents books table.
// Invariant: 0 <= copies_available <= total_copies. Both bounds are enforced
// by guarded UPDATEs in the book repository, never by blind writes.
type Book struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:200;not null;index" json:"title"`
	Author          string         `gorm:"size:100;not null" json:"author"`
	Genre           string         `gorm:"size:50" json:"genre"`
	Category        string         `gorm:"size:50" json:"category"`
	ISBN            string         `gorm:"uniqueIndex;size:20;not null" json:"isbn"`
	PublishYear     int            `gorm:"not null" json:"publish_year"`
	TotalCopies     int            `gorm:"not null;default:1" json:"total_copies"`
	CopiesAvailable int            `gorm:"not null;default:1" json:"copies_available"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// BookResponse DTO
type BookResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	Category        string    `json:"category"`
	ISBN            string    `json:"isbn"`
	PublishYear     int       `json:"publish_year"`
	TotalCopies     int       `json:"total_copies"`
	CopiesAvailable int       `json:"copies_available"`
	CreatedAt       time.Time `json:"created_at"`
}

func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		Category:        b.Category,
		ISBN:            b.ISBN,
		PublishYear:     b.PublishYear,
		TotalCopies:     b.TotalCopies,
		CopiesAvailable: b.CopiesAvailable,
	}
}

// ============================================================
// Loan lifecycle
// ============================================================

// LoanRecord represents loan_records table.
// A record is open while returned_at is NULL and closed once it is set.
type LoanRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	MemberID   uint       `gorm:"not null;index" json:"member_id"`
	BookID     uint       `gorm:"not null;index" json:"book_id"`
	BorrowedAt time.Time  `gorm:"not null" json:"borrowed_at"`
	DueDate    time.Time  `gorm:"not null" json:"due_date"`
	ReturnedAt *time.Time `gorm:"index" json:"returned_at"`
	FineAmount float64    `gorm:"type:decimal(10,2);not null;default:0" json:"fine_amount"`
	FinePaid   bool       `gorm:"default:false" json:"fine_paid"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Book   *Book   `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (LoanRecord) TableName() string {
	return "loan_records"
}

// IsOpen reports whether the record has not been returned yet
func (r *LoanRecord) IsOpen() bool {
	return r.ReturnedAt == nil
}

// IsOverdue reports whether the record is overdue at the given time:
// open and past due, or closed and returned past due. Once true for an
// open record the answer never flips back while the record stays open.
func (r *LoanRecord) IsOverdue(now time.Time) bool {
	if r.ReturnedAt == nil {
		return now.After(r.DueDate)
	}
	return r.ReturnedAt.After(r.DueDate)
}

// LoanRecordResponse DTO
type LoanRecordResponse struct {
	ID         uint       `json:"id"`
	MemberID   uint       `json:"member_id"`
	MemberName string     `json:"member_name,omitempty"`
	BookID     uint       `json:"book_id"`
	BookTitle  string     `json:"book_title,omitempty"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at"`
	IsOverdue  bool       `json:"is_overdue"`
	FineAmount float64    `json:"fine_amount"`
	FinePaid   bool       `json:"fine_paid"`
}

func (r *LoanRecord) ToResponse() *LoanRecordResponse {
	resp := &LoanRecordResponse{
		ID:         r.ID,
		MemberID:   r.MemberID,
		BookID:     r.BookID,
		BorrowedAt: r.BorrowedAt,
		DueDate:    r.DueDate,
		ReturnedAt: r.ReturnedAt,
		IsOverdue:  r.IsOverdue(time.Now()),
		FineAmount: r.FineAmount,
		FinePaid:   r.FinePaid,
	}

	if r.Member != nil {
		resp.MemberName = r.Member.FirstName + " " + r.Member.LastName
	}
	if r.Book != nil {
		resp.BookTitle = r.Book.Title
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&RefreshToken{},
		&Book{},
		&LoanRecord{},
	)
}
