package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentApp, Output: &buf})

	l.WithComponent(ComponentFinance).Info("transfer committed", FieldLogin, "alice")

	out := buf.String()
	if !strings.Contains(out, "component=finance") {
		t.Fatalf("expected component field, got %q", out)
	}
	if !strings.Contains(out, "login=alice") {
		t.Fatalf("expected login field, got %q", out)
	}
	if strings.Contains(out, "component=app") {
		t.Fatalf("component must be replaced, got %q", out)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentStorage, Output: &buf})

	l.LogError(context.Background(), "save failed", errors.New("disk full"), OpSave, NewFields().WithLogin("bob"))

	out := buf.String()
	for _, want := range []string{"level=ERROR", "error=\"disk full\"", "operation=save", "login=bob"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"", slog.LevelInfo, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}
