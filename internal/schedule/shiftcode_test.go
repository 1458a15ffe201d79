package schedule

import (
	"testing"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func TestParseShiftCode(t *testing.T) {
	tests := []struct {
		raw  string
		want CodeKind
	}{
		{"", CodeEmpty},
		{"  ", CodeEmpty},
		{"N", CodeNight},
		{"n", CodeNight},
		{"NIGHT", CodeNight},
		{"HN", CodeNightWithLeave},
		{"Off", CodeOff},
		{"OFF", CodeOff},
		{"연", CodeLeave},
		{"연차", CodeLeave},
		{"AL", CodeLeave},
		{"반차", CodeLeave},
		{"HD", CodeLeave},
		{"D", CodeWork},
		{"D1", CodeWork},
		{"E", CodeWork},
		{"대", CodeWork},
		{"텍스트:병가", CodeFreeText},
		{"???", CodeOther},
	}

	for _, tt := range tests {
		got := ParseShiftCode(tt.raw, nil)
		if got.Kind != tt.want {
			t.Errorf("ParseShiftCode(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.want)
		}
	}
}

func TestParseShiftCodeOnCallSymbol(t *testing.T) {
	cfg := &domain.DutyConfig{DutyMode: domain.DutyModeOnCallDuty, CellSymbol: "당"}

	tests := []struct {
		raw      string
		category DutyCategory
	}{
		{"당", CategoryAuto},
		{"당1", CategoryWeekday},
		{"당2", CategorySaturday},
		{"당3", CategoryHolidaySunday},
		{"당9", CategoryAuto},
	}
	for _, tt := range tests {
		got := ParseShiftCode(tt.raw, cfg)
		if got.Kind != CodeNight {
			t.Errorf("ParseShiftCode(%q).Kind = %v, want CodeNight", tt.raw, got.Kind)
		}
		if got.Category != tt.category {
			t.Errorf("ParseShiftCode(%q).Category = %v, want %v", tt.raw, got.Category, tt.category)
		}
	}

	// NIGHT_SHIFT 모드에서는 셀 기호가 당직으로 해석되지 않는다
	nightCfg := &domain.DutyConfig{DutyMode: domain.DutyModeNightShift, CellSymbol: "당"}
	if got := ParseShiftCode("당", nightCfg); got.Kind == CodeNight {
		t.Error("cell symbol should not parse as night in night shift mode")
	}
}

func TestShiftCodePredicates(t *testing.T) {
	if !ParseShiftCode("N", nil).IsNight() {
		t.Error("N should be night")
	}
	if !ParseShiftCode("HN", nil).IsNight() {
		t.Error("HN should be night")
	}
	if ParseShiftCode("D", nil).IsNight() {
		t.Error("D should not be night")
	}

	for _, day := range []string{"D", "D1", "대"} {
		if !ParseShiftCode(day, nil).IsDayShift() {
			t.Errorf("%q should be a day shift", day)
		}
	}
	// E 는 데이 근무가 아니므로 연속 패턴 검사 대상이 아니다
	if ParseShiftCode("E", nil).IsDayShift() {
		t.Error("E should not be a day shift")
	}
}
