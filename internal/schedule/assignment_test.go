package schedule

import (
	"errors"
	"testing"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func TestParseDayKey(t *testing.T) {
	tests := []struct {
		key   string
		start int
		end   int
		ok    bool
	}{
		{"5", 5, 5, true},
		{"31", 31, 31, true},
		{"5-10", 5, 10, true},
		{"1-1", 1, 1, true},
		{"10-5", 0, 0, false},
		{"0", 0, 0, false},
		{"-3", 0, 0, false},
		{"abc", 0, 0, false},
		{"rowType", 0, 0, false},
		{"longTextValue", 0, 0, false},
	}

	for _, tt := range tests {
		start, end, ok := ParseDayKey(tt.key)
		if start != tt.start || end != tt.end || ok != tt.ok {
			t.Errorf("ParseDayKey(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.key, start, end, ok, tt.start, tt.end, tt.ok)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid assignment", func(t *testing.T) {
		a := domain.ShiftAssignment{"1": "N", "2": "Off", "5-10": "텍스트:병가"}
		if err := Validate(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("day inside range", func(t *testing.T) {
		a := domain.ShiftAssignment{"7": "N", "5-10": "텍스트:병가"}
		if err := Validate(a); !errors.Is(err, ErrOverlappingAssignment) {
			t.Fatalf("expected ErrOverlappingAssignment, got %v", err)
		}
	})

	t.Run("overlapping ranges", func(t *testing.T) {
		a := domain.ShiftAssignment{"5-10": "텍스트:병가", "8-12": "텍스트:교육"}
		if err := Validate(a); !errors.Is(err, ErrOverlappingAssignment) {
			t.Fatalf("expected ErrOverlappingAssignment, got %v", err)
		}
	})
}

func TestNormalize(t *testing.T) {
	a := domain.ShiftAssignment{
		"7":    "N",
		"5-10": "텍스트:병가",
		"12":   "D",
	}
	normalized := Normalize(a)

	if _, exists := normalized["7"]; exists {
		t.Error("day key shadowed by range should be dropped")
	}
	if normalized["5-10"] != "텍스트:병가" {
		t.Error("range key should survive")
	}
	if normalized["12"] != "D" {
		t.Error("unrelated day key should survive")
	}
	if a["7"] != "N" {
		t.Error("input map must not be mutated")
	}
}

func TestConvertRangeToText(t *testing.T) {
	t.Run("converts days into one merged cell", func(t *testing.T) {
		a := domain.ShiftAssignment{"5": "N", "6": "Off", "7": "D", "12": "E"}
		if err := ConvertRangeToText(a, 5, 7, "병가"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := a["5-7"]; got != "텍스트:병가" {
			t.Errorf("merged value = %q, want %q", got, "텍스트:병가")
		}
		for _, key := range []string{"5", "6", "7"} {
			if _, exists := a[key]; exists {
				t.Errorf("day key %q should be removed", key)
			}
		}
		if a["12"] != "E" {
			t.Error("days outside the range must be untouched")
		}
	})

	t.Run("rejects overlap with existing range", func(t *testing.T) {
		a := domain.ShiftAssignment{"5-10": "텍스트:병가"}
		if err := ConvertRangeToText(a, 8, 12, "교육"); !errors.Is(err, ErrOverlappingAssignment) {
			t.Fatalf("expected ErrOverlappingAssignment, got %v", err)
		}
	})

	t.Run("rejects invalid range", func(t *testing.T) {
		a := domain.ShiftAssignment{}
		if err := ConvertRangeToText(a, 10, 5, "x"); err == nil {
			t.Fatal("expected error for inverted range")
		}
	})
}

func TestConvertTextToCells(t *testing.T) {
	a := domain.ShiftAssignment{"5-7": "텍스트:병가"}
	if err := ConvertTextToCells(a, "5-7"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, exists := a["5-7"]; exists {
		t.Error("range key should be removed")
	}
	for _, key := range []string{"5", "6", "7"} {
		if value, exists := a[key]; !exists || value != "" {
			t.Errorf("day %q should be restored as an empty cell, got %q", key, value)
		}
	}

	if err := ConvertTextToCells(a, "5-7"); err == nil {
		t.Error("expected error for missing merged cell")
	}
	if err := ConvertTextToCells(a, "5"); err == nil {
		t.Error("expected error for non-range key")
	}
}

func TestRangeRoundTrip(t *testing.T) {
	a := domain.ShiftAssignment{"5": "N", "6": "Off", "7": "D"}
	if err := ConvertRangeToText(a, 5, 7, "병가"); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if err := ConvertTextToCells(a, "5-7"); err != nil {
		t.Fatalf("unmerge: %v", err)
	}

	// 원래 값은 돌아오지 않고 빈 셀이 된다
	for _, key := range []string{"5", "6", "7"} {
		if a[key] != "" {
			t.Errorf("day %q = %q, want empty after round trip", key, a[key])
		}
	}
}
