package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mkirylau/vinylmarket/internal/infrastructure/auth"
	"github.com/mkirylau/vinylmarket/internal/infrastructure/payments"
	"github.com/mkirylau/vinylmarket/internal/policy"
	service "github.com/mkirylau/vinylmarket/internal/services"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
)

type Handler struct {
	authService     service.AuthService
	userService     service.UserService
	purchaseService service.PurchaseService
	payClient       payments.Client
}

func NewHandler(
	authService service.AuthService,
	userService service.UserService,
	purchaseService service.PurchaseService,
	payClient payments.Client,
) *Handler {
	return &Handler{
		authService:     authService,
		userService:     userService,
		purchaseService: purchaseService,
		payClient:       payClient,
	}
}

func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/purchase/webhook", h.StripeWebhook).Methods("POST")
	r.HandleFunc("/purchase/success", h.PaymentSuccessful).Methods("GET")
	r.HandleFunc("/purchase/cancel", h.PaymentCanceled).Methods("GET")
}

func (h *Handler) RegisterProtectedRoutes(r *mux.Router) {
	r.Handle("/purchase/record/{id:[0-9]+}",
		policy.Require(policy.ActionRead, policy.ResourceRecord)(http.HandlerFunc(h.CreateCheckoutSession))).
		Methods("GET")
	r.HandleFunc("/purchase/{id:[0-9]+}", h.GetPurchase).Methods("GET")
	r.HandleFunc("/user/{id:[0-9]+}", h.GetUser).Methods("GET")
	r.HandleFunc("/user/{id:[0-9]+}", h.UpdateUser).Methods("PUT")
	r.HandleFunc("/user/{id:[0-9]+}", h.DeleteUser).Methods("DELETE")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewValidation("invalid request body", err.Error()))
		return
	}

	userID, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		pkgerrors.WriteHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"user_id": userID})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewValidation("invalid request body", err.Error()))
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		pkgerrors.WriteHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewAuthentication("user not authenticated"))
		return
	}
	userID, err := pathID(r)
	if err != nil {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewValidation("invalid user id", nil))
		return
	}

	user, err := h.userService.GetUser(r.Context(), identity, userID)
	if err != nil {
		pkgerrors.WriteHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewAuthentication("user not authenticated"))
		return
	}
	userID, err := pathID(r)
	if err != nil {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewValidation("invalid user id", nil))
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewValidation("invalid request body", err.Error()))
		return
	}

	if err := h.userService.UpdateUser(r.Context(), identity, userID, req.Email, req.Password); err != nil {
		pkgerrors.WriteHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewAuthentication("user not authenticated"))
		return
	}
	userID, err := pathID(r)
	if err != nil {
		pkgerrors.WriteHTTP(w, r, pkgerrors.NewValidation("invalid user id", nil))
		return
	}

	if err := h.userService.DeleteUser(r.Context(), identity, userID); err != nil {
		pkgerrors.WriteHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
