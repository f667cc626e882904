package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/auth"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
)

// CreateCheckoutSession starts a checkout for one record and returns the
// processor redirect URL.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewAuthentication("user not authenticated"))
		return
	}
	recordID, err := pathID(r)
	if err != nil {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewValidation("invalid record id", nil))
		return
	}

	session, err := h.purchaseService.CreateCheckoutSession(r.Context(), identity, recordID)
	if err != nil {
		pkgerrors.WriteHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": session.URL})
}

// StripeWebhook verifies the signature against the raw, unparsed body and
// applies the event. Any verification or application failure is a non-2xx
// response; the processor retries on its own schedule, which is safe
// because status transitions are idempotent.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil || len(payload) == 0 {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewValidation("missing raw body", nil))
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	event, err := h.payClient.ConstructEvent(payload, signature)
	if err != nil {
		slog.Error("webhook verification failed", "error", err)
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewValidation("invalid signature", err.Error()))
		return
	}

	if err := h.purchaseService.HandleWebhook(r.Context(), event); err != nil {
		pkgerrors.WriteHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID, err := pathID(r)
	if err != nil {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewValidation("invalid purchase id", nil))
		return
	}

	purchase, err := h.purchaseService.GetPurchase(r.Context(), purchaseID)
	if err != nil {
		pkgerrors.WriteHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"purchaseId": purchase.ID,
		"status":     purchase.Status,
	})
}

func (h *Handler) PaymentSuccessful(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("now you have your record"))
}

func (h *Handler) PaymentCanceled(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("something went wrong while processing payment, try again"))
}
