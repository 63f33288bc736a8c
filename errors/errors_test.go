package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseRevoke,
				Kind:   KindCleanupCallback,
				Handle: "blob:mem/abc",
				Owner:  "player-1",
				Detail: "callback failed",
			},
			contains: []string{"[revoke]", "cleanup_callback", "blob:mem/abc", "player-1", "callback failed"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseCreate,
				Kind:  KindEmptyResource,
			},
			contains: []string{"[create]", "empty_resource"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseConsume,
				Kind:   KindConsumption,
				Detail: "failed to fetch",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[consume]", "consumption", "failed to fetch", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := CleanupFailed("blob:mem/x", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
}

func TestError_Is(t *testing.T) {
	a := EmptyResource("comp1")
	b := EmptyResource("comp2")
	c := InvalidResource("comp1", "nil input")

	if !errors.Is(a, b) {
		t.Error("same phase and kind should match regardless of owner")
	}
	if errors.Is(a, c) {
		t.Error("different kinds should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseConsume, KindConsumption).
		Handle("blob:mem/h1").
		Owner("viewer").
		Detail("fetch %d of %d", 2, 3).
		Cause(cause).
		Build()

	if err.Phase != PhaseConsume || err.Kind != KindConsumption {
		t.Fatal("builder did not preserve phase/kind")
	}
	if err.Detail != "fetch 2 of 3" {
		t.Fatalf("unexpected detail %q", err.Detail)
	}
	if err.Unwrap() != cause {
		t.Fatal("builder did not set cause")
	}
}

func TestIsKind(t *testing.T) {
	inner := UnknownHandle(PhaseRevoke, "blob:mem/gone")
	wrapped := Consumption("blob:mem/gone", "failed to fetch", inner)

	if !IsKind(wrapped, KindConsumption) {
		t.Error("expected consumption kind at the surface")
	}
	if !IsKind(wrapped, KindUnknownHandle) {
		t.Error("expected unknown_handle kind through the chain")
	}
	if IsKind(wrapped, KindEmptyResource) {
		t.Error("unexpected empty_resource match")
	}
	if IsKind(errors.New("plain"), KindConsumption) {
		t.Error("plain errors should not match any kind")
	}
}
