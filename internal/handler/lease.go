package handler

import (
	"net/http"
	"time"

	"github.com/parkrow/backoffice/internal/lifecycle"
	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/tenancy"
	"github.com/parkrow/backoffice/internal/types"
)

// LeaseHandler implements HTTP handlers for leases.
type LeaseHandler struct {
	store  storage.Store
	leases *lifecycle.LeaseService
}

// NewLeaseHandler creates a new LeaseHandler.
func NewLeaseHandler(store storage.Store, leases *lifecycle.LeaseService) *LeaseHandler {
	return &LeaseHandler{store: store, leases: leases}
}

type createLeaseRequest struct {
	PropertyID         string     `json:"property_id"`
	UnitID             string     `json:"unit_id"`
	RenterID           string     `json:"renter_id"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	RentAmountCents    int64      `json:"rent_amount_cents"`
	DepositAmountCents int64      `json:"deposit_amount_cents,omitempty"`
	Currency           string     `json:"currency,omitempty"`
	BillCycle          string     `json:"bill_cycle,omitempty"`
}

func (h *LeaseHandler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var req createLeaseRequest
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
	l := &types.Lease{
		OrganizationID: orgID,
		PropertyID:     req.PropertyID,
		UnitID:         req.UnitID,
		RenterID:       req.RenterID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		RentAmount:     types.Money{AmountCents: req.RentAmountCents, Currency: currency},
		DepositAmount:  types.Money{AmountCents: req.DepositAmountCents, Currency: currency},
		BillCycle:      types.BillCycle(req.BillCycle),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := h.leases.CreateLease(r.Context(), l)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *LeaseHandler) GetLease(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	l, err := h.store.GetLease(r.Context(), storage.Ref{ID: id})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeaseHandler) ListLeases(w http.ResponseWriter, r *http.Request) {
	f := storage.LeaseFilter{
		UnitID: r.URL.Query().Get("unit_id"),
		Status: types.LeaseStatus(r.URL.Query().Get("status")),
		Limit:  parseLimit(r),
	}
	leases, err := h.store.ListLeases(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leases)
}

// ActivateLease executes the pending→active transition. Exactly one of any
// set of concurrent calls succeeds; the rest get 409s naming the state they
// lost to.
func (h *LeaseHandler) ActivateLease(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	orgID, _ := tenancy.OrganizationID(r.Context())
	result, err := h.leases.Activate(r.Context(), id, orgID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
