package cmd

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Tiliavir/cedolino/internal/storage"
)

func TestExitCode(t *testing.T) {
	if got := exitCode(fmt.Errorf("wrapped: %w", storage.ErrStorage)); got != 2 {
		t.Errorf("storage error exit code = %d, want 2", got)
	}
	if got := exitCode(errors.New("no open interval to close")); got != 1 {
		t.Errorf("user error exit code = %d, want 1", got)
	}
}

func TestMoneyUsesItalianFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"109.19", "109,19 €"},
		{"0", "0,00 €"},
		{"19.692", "19,69 €"},
	}
	for _, tt := range tests {
		if got := money(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("money(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSyncRange(t *testing.T) {
	now := time.Date(2025, 6, 30, 15, 0, 0, 0, time.UTC)

	from, to, err := syncRange("", "", "", now)
	if err != nil || from.Format("2006-01-02") != "2025-06-30" || !from.Equal(to) {
		t.Errorf("default range = %v..%v, %v", from, to, err)
	}

	from, to, err = syncRange("", "2025-06-01", "", now)
	if err != nil || from.Day() != 1 || to.Day() != 30 {
		t.Errorf("--from only = %v..%v, %v", from, to, err)
	}

	if _, _, err := syncRange("", "", "2025-06-10", now); err == nil {
		t.Error("expected error for --to without --from")
	}
	if _, _, err := syncRange("", "2025-06-10", "2025-06-01", now); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestResolveMonth(t *testing.T) {
	y, m, err := resolveMonth("", time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC))
	if err != nil || y != 2025 || m != time.February {
		t.Errorf("resolveMonth default = %d-%d, %v", y, m, err)
	}
	if _, _, err := resolveMonth("2025-13", time.Now()); err == nil {
		t.Error("expected error for month 13")
	}
}
