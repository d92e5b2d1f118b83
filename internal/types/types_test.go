package types

import "testing"

func TestLeaseTransitions(t *testing.T) {
	cases := []struct {
		from LeaseStatus
		to   LeaseStatus
		want bool
	}{
		{LeasePending, LeaseActive, true},
		{LeasePending, LeaseTerminated, true},
		{LeasePending, LeaseExpired, false},
		{LeaseActive, LeaseExpired, true},
		{LeaseActive, LeaseTerminated, true},
		{LeaseActive, LeasePending, false},
		{LeaseTerminated, LeaseActive, false},
		{LeaseExpired, LeaseActive, false},
		{LeaseExpired, LeasePending, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestTerminalLeaseStatusesHaveNoSuccessors(t *testing.T) {
	for _, s := range []LeaseStatus{LeaseTerminated, LeaseExpired} {
		if n := len(ValidLeaseTransitions[s]); n != 0 {
			t.Errorf("%s has %d successors, want 0", s, n)
		}
	}
}

func TestUnitOccupiable(t *testing.T) {
	cases := []struct {
		status UnitStatus
		want   bool
	}{
		{UnitVacant, true},
		{UnitReserved, true},
		{UnitOccupied, false},
		{UnitUnavailable, false},
	}
	for _, c := range cases {
		if got := c.status.Occupiable(); got != c.want {
			t.Errorf("Occupiable(%s) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestPaymentSettleable(t *testing.T) {
	cases := []struct {
		status PaymentStatus
		want   bool
	}{
		{PaymentPending, true},
		{PaymentOverdue, true},
		{PaymentPartial, false},
		{PaymentPaid, false},
		{PaymentCanceled, false},
	}
	for _, c := range cases {
		if got := c.status.Settleable(); got != c.want {
			t.Errorf("Settleable(%s) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestPaymentTerminal(t *testing.T) {
	for _, c := range []struct {
		status PaymentStatus
		want   bool
	}{
		{PaymentPaid, true},
		{PaymentCanceled, true},
		{PaymentPending, false},
		{PaymentOverdue, false},
		{PaymentPartial, false},
	} {
		if got := c.status.Terminal(); got != c.want {
			t.Errorf("Terminal(%s) = %v, want %v", c.status, got, c.want)
		}
	}
}
