package handler

import (
	"net/http"
	"time"

	"github.com/parkrow/backoffice/internal/lifecycle"
	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/tenancy"
	"github.com/parkrow/backoffice/internal/types"
)

// PaymentHandler implements HTTP handlers for payments.
type PaymentHandler struct {
	store    storage.Store
	payments *lifecycle.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(store storage.Store, payments *lifecycle.PaymentService) *PaymentHandler {
	return &PaymentHandler{store: store, payments: payments}
}

type createPaymentRequest struct {
	LeaseID     string    `json:"lease_id"`
	Type        string    `json:"type,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency,omitempty"`
	DueDate     time.Time `json:"due_date"`
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	orgID, _ := tenancy.OrganizationID(r.Context())
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	now := time.Now().UTC()
	p := &types.Payment{
		OrganizationID: orgID,
		LeaseID:        req.LeaseID,
		Type:           types.PaymentType(req.Type),
		Amount:         types.Money{AmountCents: req.AmountCents, Currency: currency},
		DueDate:        req.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := h.payments.CreatePayment(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.store.GetPayment(r.Context(), storage.Ref{ID: id})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	f := storage.PaymentFilter{
		LeaseID: r.URL.Query().Get("lease_id"),
		Status:  types.PaymentStatus(r.URL.Query().Get("status")),
		Limit:   parseLimit(r),
	}
	payments, err := h.store.ListPayments(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// MarkPaid settles a payment. Settlement is permitted from pending and
// overdue; a replay against an already-paid payment follows the configured
// replay policy.
func (h *PaymentHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		PaidAt *time.Time `json:"paid_at,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
			return
		}
	}
	orgID, _ := tenancy.OrganizationID(r.Context())
	p, err := h.payments.MarkPaid(r.Context(), id, orgID, req.PaidAt)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
