package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsWrappedAPIError(t *testing.T) {
	inner := BadRequest("prompt is required")
	err := fmt.Errorf("handler: %w", inner)

	got := As(err)
	if got != inner {
		t.Fatalf("As returned %#v, want inner error", got)
	}
	if got.Status != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", got.Status)
	}
}

func TestAsWrapsUnknownErrorsAsInternal(t *testing.T) {
	got := As(errors.New("boom"))
	if got.Status != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", got.Status)
	}
	if got.Details() != "boom" {
		t.Fatalf("details=%q want boom", got.Details())
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should be nil")
	}
}
