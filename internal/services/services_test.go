package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"passpack/internal/services"
)

func TestWrapTagsWithMarker(t *testing.T) {
	cause := fmt.Errorf("exit status 2")
	err := services.Wrap(services.ErrExternalTool, "archive", "create encrypted container", "", cause)

	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("marker lost: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
	if !strings.Contains(err.Error(), "archive: create encrypted container") {
		t.Fatalf("detail missing: %v", err)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrConfiguration, "escalation", "build issue", "no project configured", nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("marker lost: %v", err)
	}
	if !strings.Contains(err.Error(), "no project configured") {
		t.Fatalf("message missing: %v", err)
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("nil marker should default to transient: %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("empty detail not defaulted: %v", err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := services.TicketIDFromContext(ctx); ok {
		t.Fatal("empty context reported a ticket id")
	}

	ctx = services.WithTicketID(ctx, 42)
	ctx = services.WithStage(ctx, "deliver")
	ctx = services.WithRunID(ctx, "run-1")

	if id, ok := services.TicketIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("ticket id = %d, %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "deliver" {
		t.Fatalf("stage = %q, %v", stage, ok)
	}
	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-1" {
		t.Fatalf("run id = %q, %v", rid, ok)
	}
}

func TestContextIgnoresEmptyValues(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("empty stage stored")
	}
	ctx = services.WithRunID(context.Background(), "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("empty run id stored")
	}
}
