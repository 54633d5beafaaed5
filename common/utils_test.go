package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "json", "yaml"); got != "json" {
		t.Errorf("Coalesce = %q, want json", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce = %d, want 0", got)
	}
}

func TestValueOr(t *testing.T) {
	if got := ValueOr(nil, 1.5); got != 1.5 {
		t.Errorf("ValueOr(nil) = %v", got)
	}
	if got := ValueOr(Ptr(0.0), 1.5); got != 0 {
		t.Errorf("ValueOr(0) = %v", got)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogLevel("info")

	if err := SetLogLevel("warn"); err != nil {
		t.Fatalf("SetLogLevel: %v", err)
	}
	LogInfo("hidden")
	LogWarn("shown", "key", "value")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("log output = %q", out)
	}

	if err := SetLogLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
