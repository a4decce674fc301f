package config

import (
	"log"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdmin(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedBooks(); err != nil {
		log.Printf("⚠️ Book seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdmin seeds the default admin member
// This is for development/testing only
// In production, create the admin through a secure process
func (s *Seeder) seedAdmin() error {
	var count int64
	s.db.Model(&models.Member{}).Where("role = ?", "Admin").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.Member{
		MemberNo:  "LIB-0001",
		FirstName: "System",
		LastName:  "Administrator",
		Email:     "admin@shelfwise.app",
		Password:  hashedPassword,
		Role:      "Admin",
		Status:    "Active",
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin member created: %s", admin.Email)
	return nil
}

// seedBooks seeds a small starter catalog so a fresh install is usable
func (s *Seeder) seedBooks() error {
	var count int64
	s.db.Model(&models.Book{}).Count(&count)
	if count > 0 {
		return nil // Catalog already populated
	}

	books := []models.Book{
		{
			Title:           "The Go Programming Language",
			Author:          "Alan A. A. Donovan",
			Genre:           "Non-fiction",
			Category:        "Technology",
			ISBN:            "9780134190440",
			PublishYear:     2015,
			TotalCopies:     3,
			CopiesAvailable: 3,
		},
		{
			Title:           "Designing Data-Intensive Applications",
			Author:          "Martin Kleppmann",
			Genre:           "Non-fiction",
			Category:        "Technology",
			ISBN:            "9781449373320",
			PublishYear:     2017,
			TotalCopies:     2,
			CopiesAvailable: 2,
		},
		{
			Title:           "The Pragmatic Programmer",
			Author:          "David Thomas",
			Genre:           "Non-fiction",
			Category:        "Technology",
			ISBN:            "9780135957059",
			PublishYear:     2019,
			TotalCopies:     2,
			CopiesAvailable: 2,
		},
	}

	if err := s.db.Create(&books).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d starter books", len(books))
	return nil
}
