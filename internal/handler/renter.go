package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/types"
)

// RenterHandler implements HTTP handlers for renters.
type RenterHandler struct {
	store storage.Store
}

// NewRenterHandler creates a new RenterHandler.
func NewRenterHandler(store storage.Store) *RenterHandler {
	return &RenterHandler{store: store}
}

type createRenterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (h *RenterHandler) CreateRenter(w http.ResponseWriter, r *http.Request) {
	var req createRenterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.FullName == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "full_name and email are required")
		return
	}
	now := time.Now().UTC()
	rec := &types.Renter{
		ID:        uuid.New().String(),
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.CreateRenter(r.Context(), rec); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *RenterHandler) GetRenter(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	rec, err := h.store.GetRenter(r.Context(), storage.Ref{ID: id})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *RenterHandler) ListRenters(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.ListRenters(r.Context(), "", parseLimit(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
