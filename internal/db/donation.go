package db

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DonationStatus tracks a ledger entry through the payment processor.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
	DonationCancelled DonationStatus = "cancelled"
)

// Valid reports whether s is a known donation status.
func (s DonationStatus) Valid() bool {
	switch s {
	case DonationPending, DonationCompleted, DonationFailed, DonationCancelled:
		return true
	}
	return false
}

// Donation is one monetary contribution. UserID is nil for anonymous
// donations, which carry contact fields instead. The stripe identifiers are
// opaque references into the external payment processor.
type Donation struct {
	gorm.Model
	UserID *uint `gorm:"index"`
	User   *User `gorm:"constraint:OnDelete:SET NULL;"`

	Email     string `gorm:"not null"`
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`

	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsRecurring bool            `gorm:"default:false"`

	StripeCustomerID      string         `gorm:"size:100"`
	StripeSubscriptionID  string         `gorm:"size:100"`
	StripePaymentIntentID string         `gorm:"size:100"`
	Status                DonationStatus `gorm:"size:20;default:pending;index"`

	Message       string `gorm:"size:500"`
	CompletedDate *time.Time
}

// DonorName mirrors the display rule used by the admin: attached user's full
// name, else the contact name, else the email.
func (d *Donation) DonorName() string {
	if d.User != nil {
		return d.User.FullName()
	}
	name := strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
	if name != "" {
		return name
	}
	return d.Email
}

// IsAnonymous reports whether the donation has no attached account.
func (d *Donation) IsAnonymous() bool {
	return d.UserID == nil
}
