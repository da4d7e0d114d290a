package pay

import (
	"encoding/json"
	"fmt"
	"net/http"

	"Alutherm/internal/repo"
)

// PremiumPriceKopecks is a month of premium access (batch tools, importer).
const PremiumPriceKopecks = 29900

type Handler struct {
	Client *Client
	Repo   repo.Repository
}

type buyResponse struct {
	TicketID   int    `json:"ticket_id"`
	PaymentID  string `json:"payment_id"`
	PaymentURL string `json:"payment_url"`
}

// BuyPremium opens a pending ticket and a payment for it. The ticket is
// approved by the admin bot once the payment settles.
func (h *Handler) BuyPremium(w http.ResponseWriter, r *http.Request) {
	idVal := r.Context().Value("userID")
	userID, ok := idVal.(int)
	if !ok || userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ticketID, err := h.Repo.CreatePremiumTicket(r.Context(), userID)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	resp, err := h.Client.CreatePayment(PaymentRequest{
		Amount:      PremiumPriceKopecks,
		OrderID:     fmt.Sprintf("premium-%d", ticketID),
		Description: "Premium access, 30 days",
		CustomerKey: fmt.Sprintf("user-%d", userID),
	})
	if err != nil {
		http.Error(w, "Payment error", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(buyResponse{
		TicketID:   ticketID,
		PaymentID:  resp.PaymentID,
		PaymentURL: resp.PaymentURL,
	})
}

func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("payment_id")
	if paymentID == "" {
		http.Error(w, "payment_id required", http.StatusBadRequest)
		return
	}
	resp, err := h.Client.Status(paymentID)
	if err != nil {
		http.Error(w, "Payment error", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
