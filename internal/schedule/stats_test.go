package schedule

import (
	"testing"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func onCallConfig() *domain.DutyConfig {
	return &domain.DutyConfig{
		DutyMode:    domain.DutyModeOnCallDuty,
		DisplayName: "당직",
		CellSymbol:  "당",
		UseWeekday:  true,
		UseSaturday: true,
		UseHoliday:  true,
	}
}

func TestAggregate(t *testing.T) {
	// 2026년 9월: 1일 화요일, 토요일 5/12/19/26, 일요일 6/13/20/27
	year, month := 2026, time.September

	t.Run("empty assignment", func(t *testing.T) {
		stats := Aggregate(domain.ShiftAssignment{}, nil, year, month, nil)
		if stats.NightCount != 0 || stats.OffCount != 0 || stats.VacationCount != 0 {
			t.Fatalf("expected zero stats, got %+v", stats)
		}
		if stats.DutyDetail != nil {
			t.Fatalf("expected nil duty detail, got %+v", stats.DutyDetail)
		}
	})

	t.Run("night with half leave", func(t *testing.T) {
		a := domain.ShiftAssignment{"3": "HN"}
		stats := Aggregate(a, nil, year, month, nil)
		if stats.NightCount != 1 {
			t.Errorf("night count = %v, want 1", stats.NightCount)
		}
		if stats.VacationCount != 0.5 {
			t.Errorf("vacation count = %v, want 0.5", stats.VacationCount)
		}
	})

	t.Run("leave codes", func(t *testing.T) {
		a := domain.ShiftAssignment{
			"1": "연차",
			"2": "반차",
			"3": "AL",
			"4": "HD",
		}
		stats := Aggregate(a, nil, year, month, nil)
		if stats.VacationCount != 3 {
			t.Errorf("vacation count = %v, want 3", stats.VacationCount)
		}
	})

	t.Run("night shift mode has no duty detail", func(t *testing.T) {
		cfg := &domain.DutyConfig{DutyMode: domain.DutyModeNightShift}
		a := domain.ShiftAssignment{"1": "N", "2": "Off"}
		stats := Aggregate(a, cfg, year, month, nil)
		if stats.DutyDetail != nil {
			t.Fatalf("expected nil duty detail in night shift mode, got %+v", stats.DutyDetail)
		}
		if stats.NightCount != 1 || stats.OffCount != 1 {
			t.Errorf("got night=%v off=%v, want 1/1", stats.NightCount, stats.OffCount)
		}
	})

	t.Run("on call duty categories", func(t *testing.T) {
		cfg := onCallConfig() // 금요일 미사용
		a := domain.ShiftAssignment{
			"1":  "당", // 화요일
			"4":  "당", // 금요일, 미사용이므로 평일
			"5":  "당", // 토요일
			"6":  "당", // 일요일
			"15": "당", // 화요일이지만 공휴일
		}
		holidays := HolidaySet{"09-15": true}
		stats := Aggregate(a, cfg, year, month, holidays)

		if stats.NightCount != 5 {
			t.Errorf("night count = %v, want 5", stats.NightCount)
		}
		if stats.DutyDetail == nil {
			t.Fatal("expected duty detail in on call mode")
		}
		want := domain.DutyDetail{Weekday: 2, Saturday: 1, HolidaySunday: 2}
		if *stats.DutyDetail != want {
			t.Errorf("duty detail = %+v, want %+v", *stats.DutyDetail, want)
		}
	})

	t.Run("manual suffix overrides calendar", func(t *testing.T) {
		cfg := onCallConfig()
		// 2일은 수요일이지만 접미사 3 은 휴일/일요일로 강제한다
		a := domain.ShiftAssignment{"2": "당3"}
		stats := Aggregate(a, cfg, year, month, nil)
		if stats.DutyDetail == nil || stats.DutyDetail.HolidaySunday != 1 {
			t.Fatalf("duty detail = %+v, want holidaySunday 1", stats.DutyDetail)
		}
		if stats.DutyDetail.Weekday != 0 {
			t.Errorf("weekday = %v, want 0", stats.DutyDetail.Weekday)
		}
	})

	t.Run("friday category when enabled", func(t *testing.T) {
		cfg := onCallConfig()
		cfg.UseFriday = true
		a := domain.ShiftAssignment{"4": "당"}
		stats := Aggregate(a, cfg, year, month, nil)
		if stats.DutyDetail == nil || stats.DutyDetail.Friday != 1 {
			t.Fatalf("duty detail = %+v, want friday 1", stats.DutyDetail)
		}
	})

	t.Run("free text and reserved keys ignored", func(t *testing.T) {
		a := domain.ShiftAssignment{
			"1":             "N",
			"2":             "Off",
			"3":             "D",
			"10-15":         "텍스트:병가",
			"rowType":       "normal",
			"longTextValue": "비고",
		}
		stats := Aggregate(a, nil, year, month, nil)
		if stats.NightCount != 1 {
			t.Errorf("night count = %v, want 1", stats.NightCount)
		}
		if stats.OffCount != 1 {
			t.Errorf("off count = %v, want 1", stats.OffCount)
		}
		if stats.VacationCount != 0 {
			t.Errorf("vacation count = %v, want 0", stats.VacationCount)
		}
	})
}

func TestRecalculate(t *testing.T) {
	entry := &domain.ScheduleEntry{
		WorkData:          domain.ShiftAssignment{"1": "N", "2": "N", "3": "Off"},
		NightDutyRequired: 3,
	}
	Recalculate(entry, nil, 2026, time.September, nil)

	if entry.NightCount != 2 {
		t.Errorf("night count = %v, want 2", entry.NightCount)
	}
	if entry.OffCount != 1 {
		t.Errorf("off count = %v, want 1", entry.OffCount)
	}
	if entry.NightDutyAdditional() != -1 {
		t.Errorf("additional nights = %v, want -1", entry.NightDutyAdditional())
	}
}

func TestParseYearMonth(t *testing.T) {
	year, month, err := ParseYearMonth("2026-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if year != 2026 || month != time.September {
		t.Errorf("got %d-%d, want 2026-9", year, month)
	}

	for _, bad := range []string{"2026/09", "2026-13", "202609", ""} {
		if _, _, err := ParseYearMonth(bad); err == nil {
			t.Errorf("ParseYearMonth(%q) expected error", bad)
		}
	}
}
