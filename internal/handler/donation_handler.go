package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rubenatello/dignov2/internal/service"
	"github.com/shopspring/decimal"
)

// Donate records a contribution. The payment processor integration lives
// outside this service, so the ledger entry is created pending and completed
// immediately.
func (a *API) Donate(c *gin.Context) {
	var payload struct {
		Email       string          `json:"email"`
		FirstName   string          `json:"first_name"`
		LastName    string          `json:"last_name"`
		Amount      decimal.Decimal `json:"amount"`
		IsRecurring bool            `json:"is_recurring"`
		Message     string          `json:"message"`
	}
	if !bindJSON(c, &payload, "email and amount are required") {
		return
	}

	input := service.DonationInput{
		Email:       payload.Email,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Amount:      payload.Amount,
		IsRecurring: payload.IsRecurring,
		Message:     payload.Message,
	}
	if user := currentUser(c); user != nil {
		input.UserID = &user.ID
	}

	donation, err := a.donations.Create(input)
	if err != nil {
		if fieldErrs, ok := err.(service.FieldErrors); ok {
			respondFieldErrors(c, fieldErrs)
			return
		}
		a.log.Error().Err(err).Msg("failed to record donation")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	completed, err := a.donations.Complete(donation.ID)
	if err != nil {
		a.log.Error().Err(err).Uint("donation_id", donation.ID).Msg("failed to complete donation")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "donation received",
		"id":      completed.ID,
		"status":  completed.Status,
	})
}
