package services

import (
	"context"
	"log"
	"time"

	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/config"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronService runs the scheduled maintenance jobs: the nightly fine
// sweep over open overdue loans and refresh token cleanup.
type CronService struct {
	cron             *cron.Cron
	loanService      *LoanService
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(db *gorm.DB, cfg *config.Config) *CronService {
	loanRepo := repositories.NewLoanRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	return &CronService{
		cron:             cron.New(),
		loanService:      NewLoanService(loanRepo, bookRepo, memberRepo, cfg.Loan),
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	// Fine sweep shortly after midnight so overdue amounts are current
	// before the library opens
	if _, err := s.cron.AddFunc("15 0 * * *", s.accrueFines); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("45 3 * * *", s.cleanupTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron service started")
	return nil
}

// Stop stops the cron scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		log.Println("⚠️ Cron jobs did not finish within 30s")
	}
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) accrueFines() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	updated, err := s.loanService.AccrueFines(ctx)
	if err != nil {
		log.Printf("❌ Fine sweep failed: %v", err)
		return
	}
	if updated > 0 {
		log.Printf("✅ Fine sweep updated %d overdue record(s)", updated)
	}
}

func (s *CronService) cleanupTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Refresh token cleanup failed: %v", err)
	}
}
