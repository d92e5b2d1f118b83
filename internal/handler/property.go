package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/types"
)

// PropertyHandler implements HTTP handlers for Property and Unit. The
// organization is taken from the authenticated tenant context; the scoped
// store refuses to see rows belonging to anyone else.
type PropertyHandler struct {
	store storage.Store
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(store storage.Store) *PropertyHandler {
	return &PropertyHandler{store: store}
}

// ---------------------------------------------------------------------------
// Property
// ---------------------------------------------------------------------------

type createPropertyRequest struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "name is required")
		return
	}
	now := time.Now().UTC()
	p := &types.Property{
		ID:           uuid.New().String(),
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.store.CreateProperty(r.Context(), p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.store.GetProperty(r.Context(), storage.Ref{ID: id})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.store.ListProperties(r.Context(), storage.PropertyFilter{Limit: parseLimit(r)})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

// ---------------------------------------------------------------------------
// Unit
// ---------------------------------------------------------------------------

type createUnitRequest struct {
	PropertyID string `json:"property_id"`
	UnitNumber string `json:"unit_number"`
}

func (h *PropertyHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req createUnitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.PropertyID == "" || req.UnitNumber == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "property_id and unit_number are required")
		return
	}
	// The parent must be visible under the caller's organization.
	if _, err := h.store.GetProperty(r.Context(), storage.Ref{ID: req.PropertyID}); err != nil {
		writeDomainError(w, err)
		return
	}
	now := time.Now().UTC()
	u := &types.Unit{
		ID:         uuid.New().String(),
		PropertyID: req.PropertyID,
		UnitNumber: req.UnitNumber,
		Status:     types.UnitVacant,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.store.CreateUnit(r.Context(), u); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *PropertyHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.store.GetUnit(r.Context(), storage.Ref{ID: id})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *PropertyHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	f := storage.UnitFilter{
		PropertyID: r.URL.Query().Get("property_id"),
		Limit:      parseLimit(r),
	}
	units, err := h.store.ListUnits(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, units)
}
