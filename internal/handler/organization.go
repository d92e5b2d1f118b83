package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/types"
)

// OrganizationHandler serves the tenant roots. These routes are
// administrative and not tenant-scoped.
type OrganizationHandler struct {
	store storage.Store
}

// NewOrganizationHandler creates an OrganizationHandler.
func NewOrganizationHandler(store storage.Store) *OrganizationHandler {
	return &OrganizationHandler{store: store}
}

// CreateOrganization creates a new organization.
func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "name is required")
		return
	}
	now := time.Now().UTC()
	org := &types.Organization{
		ID:        uuid.New().String(),
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.CreateOrganization(r.Context(), org); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

// GetOrganization fetches one organization.
func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	org, err := h.store.GetOrganization(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// ListOrganizations lists organizations.
func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.store.ListOrganizations(r.Context(), parseLimit(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orgs)
}
