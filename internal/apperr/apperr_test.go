package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("lease missing"), http.StatusNotFound},
		{Conflict(CodeLeaseAlreadyActive, "already active"), http.StatusConflict},
		{InvalidRelation("unit under wrong property"), http.StatusBadRequest},
		{Invalid("missing field"), http.StatusBadRequest},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestCodeOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("activate: %w", Conflict(CodeUnitNotVacant, "unit busy"))
	if got := CodeOf(err); got != CodeUnitNotVacant {
		t.Errorf("CodeOf = %s, want %s", got, CodeUnitNotVacant)
	}
	if !IsKind(err, KindConflict) {
		t.Error("IsKind(KindConflict) = false, want true")
	}
}

func TestCodeOf_Unknown(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Errorf("CodeOf = %s, want %s", got, CodeUnknown)
	}
}
