// Package seed provides demo data for local development.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/types"
)

// Demo creates one organization with a property, two units, a renter, and a
// pending lease ready to activate. If any organizations already exist it
// skips seeding, so repeated runs are harmless.
func Demo(ctx context.Context, store storage.Store) error {
	existing, err := store.ListOrganizations(ctx, 1)
	if err != nil {
		return fmt.Errorf("checking organizations: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("organizations already seeded (%d found), skipping", len(existing))
		return nil
	}

	now := time.Now().UTC()

	org := &types.Organization{
		ID:        uuid.New().String(),
		Name:      "Parkrow Property Management",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateOrganization(ctx, org); err != nil {
		return fmt.Errorf("creating organization: %w", err)
	}

	property := &types.Property{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Name:           "Maple Court",
		AddressLine1:   "412 Maple Ave",
		City:           "Oakland",
		State:          "CA",
		PostalCode:     "94601",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.CreateProperty(ctx, property); err != nil {
		return fmt.Errorf("creating property: %w", err)
	}

	var units []*types.Unit
	for _, number := range []string{"101", "102"} {
		u := &types.Unit{
			ID:             uuid.New().String(),
			OrganizationID: org.ID,
			PropertyID:     property.ID,
			UnitNumber:     number,
			Status:         types.UnitVacant,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := store.CreateUnit(ctx, u); err != nil {
			return fmt.Errorf("creating unit %s: %w", number, err)
		}
		units = append(units, u)
	}

	renter := &types.Renter{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		FullName:       "Dana Whitfield",
		Email:          "dana.whitfield@example.com",
		Phone:          "+1-510-555-0142",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.CreateRenter(ctx, renter); err != nil {
		return fmt.Errorf("creating renter: %w", err)
	}

	lease := &types.Lease{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		PropertyID:     property.ID,
		UnitID:         units[0].ID,
		RenterID:       renter.ID,
		Status:         types.LeasePending,
		StartDate:      time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0),
		RentAmount:     types.Money{AmountCents: 245000, Currency: "USD"},
		DepositAmount:  types.Money{AmountCents: 245000, Currency: "USD"},
		BillCycle:      types.BillMonthly,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.CreateLease(ctx, lease); err != nil {
		return fmt.Errorf("creating lease: %w", err)
	}

	log.Printf("seeded org %s with property %s, %d units, lease %s (pending)",
		org.ID, property.ID, len(units), lease.ID)
	return nil
}
