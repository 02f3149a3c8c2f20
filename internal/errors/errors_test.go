package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHasCodeThroughWrapping(t *testing.T) {
	base := InvalidActionf("slot %d occupied", 3)
	wrapped := fmt.Errorf("submit play: %w", base)

	if !HasCode(wrapped, CodeInvalidAction) {
		t.Fatalf("expected INVALID_ACTION in chain, got %v", wrapped)
	}
	if HasCode(wrapped, CodeCatalogMiss) {
		t.Fatal("unexpected CATALOG_MISS match")
	}
	if GetCode(wrapped) != CodeInvalidAction {
		t.Fatalf("GetCode = %s", GetCode(wrapped))
	}
}

func TestWrapPreservesCode(t *testing.T) {
	err := Wrap(NotFound("replay missing"), "load replay")
	if err.Code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.Code.HTTPStatus() != http.StatusNotFound {
		t.Fatalf("unexpected status %d", err.Code.HTTPStatus())
	}

	foreign := Wrap(fmt.Errorf("boom"), "redis")
	if foreign.Code != CodeInternal {
		t.Fatalf("expected INTERNAL for foreign error, got %s", foreign.Code)
	}
	if Wrap(nil, "nothing") != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
}

func TestErrorString(t *testing.T) {
	err := InvariantViolationf("battle slot %d empty", 1).WithMeta("side", "A")
	if got := err.Error(); got != "INVARIANT_VIOLATION: battle slot 1 empty" {
		t.Fatalf("unexpected message %q", got)
	}
	if err.Meta["side"] != "A" {
		t.Fatalf("meta not recorded: %v", err.Meta)
	}
}
