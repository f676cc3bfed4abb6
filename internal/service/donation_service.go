package service

import (
	"errors"
	"strings"
	"time"

	"github.com/rubenatello/dignov2/internal/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrDonationNotFound = errors.New("donation not found")

	minDonation = decimal.NewFromFloat(1.00)
)

// DonationService manages the contribution ledger. Payment-processor
// mechanics live outside this service; it only tracks ledger state.
type DonationService struct {
	db  *gorm.DB
	now func() time.Time
}

// DonationInput represents fields accepted when recording a donation.
type DonationInput struct {
	UserID      *uint
	Email       string
	FirstName   string
	LastName    string
	Amount      decimal.Decimal
	IsRecurring bool
	Message     string
}

// NewDonationService creates a DonationService instance.
func NewDonationService(gdb *gorm.DB) *DonationService {
	return &DonationService{db: gdb, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *DonationService) WithClock(now func() time.Time) *DonationService {
	if now != nil {
		s.now = now
	}
	return s
}

// Create records a pending ledger entry.
func (s *DonationService) Create(input DonationInput) (*db.Donation, error) {
	fieldErrs := FieldErrors{}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		fieldErrs["email"] = "email is required"
	}
	if input.Amount.LessThan(minDonation) {
		fieldErrs["amount"] = "minimum donation is 1.00"
	}
	if len(input.Message) > 500 {
		fieldErrs["message"] = "must be 500 characters or fewer"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	donation := db.Donation{
		UserID:      input.UserID,
		Email:       email,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Amount:      input.Amount,
		IsRecurring: input.IsRecurring,
		Message:     strings.TrimSpace(input.Message),
		Status:      db.DonationPending,
	}

	if err := s.db.Create(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// Complete marks a pending donation completed, stamps the completion time
// and accumulates the donor's running total when an account is attached.
func (s *DonationService) Complete(id uint) (*db.Donation, error) {
	var donation db.Donation
	if err := s.db.First(&donation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}

	now := s.now()
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		donation.Status = db.DonationCompleted
		donation.CompletedDate = &now
		if err := tx.Save(&donation).Error; err != nil {
			return err
		}

		if donation.UserID != nil {
			if err := tx.Model(&db.User{}).
				Where("id = ?", *donation.UserID).
				UpdateColumn("total_donated", gorm.Expr("total_donated + ?", donation.Amount)).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &donation, nil
}

// ListByUser returns a user's donations, newest first.
func (s *DonationService) ListByUser(userID uint) ([]db.Donation, error) {
	var donations []db.Donation
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}
