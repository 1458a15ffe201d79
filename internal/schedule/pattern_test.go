package schedule

import (
	"strings"
	"testing"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func TestCheckConsecutivePatterns(t *testing.T) {
	t.Run("night off day triggers warning", func(t *testing.T) {
		a := domain.ShiftAssignment{"1": "N", "2": "Off", "3": "D"}
		warnings := CheckConsecutivePatterns(a, nil)
		if len(warnings) != 1 {
			t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
		}
		if !strings.Contains(warnings[0], "1일") || !strings.Contains(warnings[0], "3일") {
			t.Errorf("warning should name the days: %q", warnings[0])
		}
	})

	t.Run("HN also counts as night", func(t *testing.T) {
		a := domain.ShiftAssignment{"10": "HN", "11": "Off", "12": "대"}
		if warnings := CheckConsecutivePatterns(a, nil); len(warnings) != 1 {
			t.Fatalf("got %d warnings, want 1", len(warnings))
		}
	})

	t.Run("no warning without the exact pattern", func(t *testing.T) {
		cases := []domain.ShiftAssignment{
			{"1": "N", "2": "Off", "3": "E"}, // E 는 데이 근무가 아니다
			{"1": "N", "2": "D"},             // 사이에 휴무가 없다
			{"1": "Off", "2": "N", "3": "D"}, // 순서가 다르다
			{"1": "N", "2": "Off", "4": "D"}, // 연속되지 않는다
			{"1": "N", "2": "연차", "3": "D"},  // 휴무가 아니라 휴가다
		}
		for i, a := range cases {
			if warnings := CheckConsecutivePatterns(a, nil); len(warnings) != 0 {
				t.Errorf("case %d: unexpected warnings %v", i, warnings)
			}
		}
	})

	t.Run("range keys are ignored", func(t *testing.T) {
		a := domain.ShiftAssignment{"1": "N", "2": "Off", "3-5": "텍스트:D"}
		if warnings := CheckConsecutivePatterns(a, nil); len(warnings) != 0 {
			t.Errorf("unexpected warnings %v", warnings)
		}
	})

	t.Run("configured duty symbol counts as night", func(t *testing.T) {
		a := domain.ShiftAssignment{"1": "당", "2": "Off", "3": "D"}

		// 부서 설정 없이는 당직 기호를 알아볼 수 없다
		if warnings := CheckConsecutivePatterns(a, nil); len(warnings) != 0 {
			t.Fatalf("unexpected warnings without config: %v", warnings)
		}
		if warnings := CheckConsecutivePatterns(a, onCallConfig()); len(warnings) != 1 {
			t.Fatalf("got %d warnings, want 1", len(warnings))
		}
	})

	t.Run("multiple patterns in one month", func(t *testing.T) {
		a := domain.ShiftAssignment{
			"1": "N", "2": "Off", "3": "D",
			"10": "N", "11": "Off", "12": "D1",
		}
		if warnings := CheckConsecutivePatterns(a, nil); len(warnings) != 2 {
			t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
		}
	})
}
