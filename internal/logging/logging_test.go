package logging

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"

	"skillman/internal/config"
)

func TestSetupAppliesLevel(t *testing.T) {
	if err := Setup(config.LoggingConfig{Level: "debug", Format: "json"}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if L.Logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %v", L.Logger.GetLevel())
	}
	if err := Setup(config.LoggingConfig{Level: "nope", Format: "text"}); err == nil {
		t.Fatalf("expected invalid level to fail")
	}
	// restore defaults for other tests
	if err := Setup(config.LoggingConfig{Level: "info", Format: "text"}); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	entry := L.WithField("op", "scan")
	ctx := WithLogger(context.Background(), entry)
	got := G(ctx)
	if got.Data["op"] != "scan" {
		t.Fatalf("expected field to survive context round trip, got %v", got.Data)
	}
	// Falls back to the global entry when nothing is attached.
	if G(context.Background()) == nil {
		t.Fatalf("expected fallback logger")
	}
}
