package service

import (
	"errors"
	"testing"
	"time"

	"github.com/rubenatello/dignov2/internal/db"
	"github.com/shopspring/decimal"
)

func TestDonationCreateValidation(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewDonationService(gdb)

	_, err := svc.Create(DonationInput{Amount: decimal.NewFromFloat(0.50)})
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if _, ok := fieldErrs["email"]; !ok {
		t.Fatalf("expected email error, got %v", fieldErrs)
	}
	if _, ok := fieldErrs["amount"]; !ok {
		t.Fatalf("expected amount error, got %v", fieldErrs)
	}

	// 1.00 is the inclusive minimum.
	donation, err := svc.Create(DonationInput{
		Email:  "donor@example.com",
		Amount: decimal.NewFromFloat(1.00),
	})
	if err != nil {
		t.Fatalf("minimum donation rejected: %v", err)
	}
	if donation.Status != db.DonationPending {
		t.Fatalf("new donation status %q, want pending", donation.Status)
	}
	if donation.CompletedDate != nil {
		t.Fatalf("pending donation should not have a completion date")
	}
}

func TestDonationCompleteAccumulatesTotal(t *testing.T) {
	gdb := setupTestDB(t)
	user := createTestUser(t, gdb, "donor", db.RoleSubscriber)

	completedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := NewDonationService(gdb).WithClock(func() time.Time { return completedAt })

	for _, amount := range []float64{5.00, 12.50} {
		donation, err := svc.Create(DonationInput{
			UserID: &user.ID,
			Email:  user.Email,
			Amount: decimal.NewFromFloat(amount),
		})
		if err != nil {
			t.Fatalf("create donation of %.2f: %v", amount, err)
		}

		completed, err := svc.Complete(donation.ID)
		if err != nil {
			t.Fatalf("complete donation: %v", err)
		}
		if completed.Status != db.DonationCompleted {
			t.Fatalf("status %q, want completed", completed.Status)
		}
		if completed.CompletedDate == nil || !completed.CompletedDate.Equal(completedAt) {
			t.Fatalf("completion date not stamped: %v", completed.CompletedDate)
		}
	}

	var refreshed db.User
	if err := gdb.First(&refreshed, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !refreshed.TotalDonated.Equal(decimal.NewFromFloat(17.50)) {
		t.Fatalf("total donated %s, want 17.50", refreshed.TotalDonated)
	}

	donations, err := svc.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(donations) != 2 {
		t.Fatalf("expected 2 donations, got %d", len(donations))
	}
}

func TestDonationCompleteAnonymous(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewDonationService(gdb)

	donation, err := svc.Create(DonationInput{
		Email:  "anon@example.com",
		Amount: decimal.NewFromFloat(3.00),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !donation.IsAnonymous() {
		t.Fatalf("donation without account should be anonymous")
	}
	if _, err := svc.Complete(donation.ID); err != nil {
		t.Fatalf("complete anonymous donation: %v", err)
	}

	if _, err := svc.Complete(9999); !errors.Is(err, ErrDonationNotFound) {
		t.Fatalf("expected ErrDonationNotFound, got %v", err)
	}
}
