package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the guarded-update semantics of
// the gorm implementations so the lifecycle tests exercise the same
// contract the services see in production.

type fakeMemberRepo struct {
	members map[uint]*models.Member
	nextID  uint
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uint]*models.Member), nextID: 1}
}

func (r *fakeMemberRepo) Create(_ context.Context, member *models.Member) error {
	member.ID = r.nextID
	r.nextID++
	r.members[member.ID] = member
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id uint) (*models.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *fakeMemberRepo) GetByEmail(_ context.Context, email string) (*models.Member, error) {
	for _, m := range r.members {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMemberRepo) GetByMemberNo(_ context.Context, memberNo string) (*models.Member, error) {
	for _, m := range r.members {
		if m.MemberNo == memberNo {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMemberRepo) Update(_ context.Context, member *models.Member) error {
	if _, ok := r.members[member.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.members[member.ID] = member
	return nil
}

func (r *fakeMemberRepo) List(_ context.Context, offset, limit int) ([]*models.Member, int64, error) {
	ids := make([]uint, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	all := make([]*models.Member, 0, len(ids))
	for _, id := range ids {
		all = append(all, r.members[id])
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeMemberRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeMemberRepo) ExistsByMemberNo(ctx context.Context, memberNo string) (bool, error) {
	_, err := r.GetByMemberNo(ctx, memberNo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeMemberRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.members)), nil
}

type fakeBookRepo struct {
	books  map[uint]*models.Book
	nextID uint
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uint]*models.Book), nextID: 1}
}

func (r *fakeBookRepo) Create(_ context.Context, book *models.Book) error {
	book.ID = r.nextID
	r.nextID++
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, id uint) (*models.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *fakeBookRepo) Update(_ context.Context, book *models.Book) error {
	if _, ok := r.books[book.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) List(_ context.Context, offset, limit int) ([]*models.Book, int64, error) {
	ids := make([]uint, 0, len(r.books))
	for id := range r.books {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	all := make([]*models.Book, 0, len(ids))
	for _, id := range ids {
		all = append(all, r.books[id])
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeBookRepo) ExistsByISBN(_ context.Context, isbn string) (bool, error) {
	for _, b := range r.books {
		if b.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.books)), nil
}

func (r *fakeBookRepo) DecrementAvailable(_ context.Context, id uint) (bool, error) {
	b, ok := r.books[id]
	if !ok {
		return false, nil
	}
	if b.CopiesAvailable <= 0 {
		return false, nil
	}
	b.CopiesAvailable--
	return true, nil
}

func (r *fakeBookRepo) IncrementAvailable(_ context.Context, id uint) (bool, error) {
	b, ok := r.books[id]
	if !ok {
		return false, nil
	}
	if b.CopiesAvailable >= b.TotalCopies {
		return false, nil
	}
	b.CopiesAvailable++
	return true, nil
}

type fakeLoanRepo struct {
	records map[uint]*models.LoanRecord
	nextID  uint

	failCreate bool
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{records: make(map[uint]*models.LoanRecord), nextID: 1}
}

func (r *fakeLoanRepo) Create(_ context.Context, record *models.LoanRecord) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	record.ID = r.nextID
	r.nextID++
	r.records[record.ID] = record
	return nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id uint) (*models.LoanRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, record *models.LoanRecord) error {
	if _, ok := r.records[record.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.records[record.ID] = record
	return nil
}

func (r *fakeLoanRepo) all() []*models.LoanRecord {
	ids := make([]uint, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*models.LoanRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.records[id])
	}
	return out
}

func (r *fakeLoanRepo) List(_ context.Context, offset, limit int) ([]*models.LoanRecord, int64, error) {
	all := r.all()
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeLoanRepo) ListByMember(_ context.Context, memberID uint) ([]*models.LoanRecord, error) {
	var out []*models.LoanRecord
	for _, rec := range r.all() {
		if rec.MemberID == memberID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) ListAll(_ context.Context) ([]*models.LoanRecord, error) {
	return r.all(), nil
}

func (r *fakeLoanRepo) ListOpenOverdue(_ context.Context, now time.Time) ([]*models.LoanRecord, error) {
	var out []*models.LoanRecord
	for _, rec := range r.all() {
		if rec.IsOpen() && now.After(rec.DueDate) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) CountOpenByBook(_ context.Context, bookID uint) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if rec.BookID == bookID && rec.IsOpen() {
			n++
		}
	}
	return n, nil
}

type fakeRefreshTokenRepo struct {
	tokens map[uint]*models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[uint]*models.RefreshToken), nextID: 1}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	token.ID = r.nextID
	r.nextID++
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	t, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	t, err := r.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return err
	}
	return r.Revoke(ctx, t.ID)
}

func (r *fakeRefreshTokenRepo) RevokeAllByMemberID(_ context.Context, memberID uint) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.MemberID == memberID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	for id, t := range r.tokens {
		if t.IsExpired() {
			delete(r.tokens, id)
		}
	}
	return nil
}
