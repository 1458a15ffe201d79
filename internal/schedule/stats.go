package schedule

import (
	"fmt"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

// Stats 는 항목 하나의 근무 데이터에서 파생되는 집계 결과이다.
type Stats struct {
	NightCount    int32
	OffCount      int32
	VacationCount float64
	DutyDetail    *domain.DutyDetail
}

// HolidaySet 은 "MM-DD" 키의 공휴일 집합이다.
type HolidaySet map[string]bool

// Aggregate 는 할당 맵과 당직 설정으로부터 나이트/휴무/연차 사용량과
// 당직 상세를 계산한다. 입력만으로 결정되는 순수 함수이며, 파생 필드의
// 저장은 호출자의 몫이다.
//
// cfg 가 nil 이면 단순 카운터만 계산한다(설정이 없던 과거 근무표 경로).
// DutyDetail 은 ON_CALL_DUTY 모드에서만 채워진다.
func Aggregate(a domain.ShiftAssignment, cfg *domain.DutyConfig, year int, month time.Month, holidays HolidaySet) Stats {
	stats := Stats{}

	onCall := cfg != nil && cfg.DutyMode == domain.DutyModeOnCallDuty
	if onCall {
		stats.DutyDetail = &domain.DutyDetail{}
	}

	for key, value := range a {
		start, _, ok := ParseDayKey(key)
		if !ok {
			continue
		}

		code := ParseShiftCode(value, cfg)
		switch code.Kind {
		case CodeNight:
			stats.NightCount++
			if onCall {
				category := code.Category
				if category == CategoryAuto {
					category = classifyDutyDay(cfg, year, month, start, holidays)
				}
				countCategory(stats.DutyDetail, category)
			}
		case CodeNightWithLeave:
			stats.NightCount++
			stats.VacationCount += code.LeaveDays
			if onCall {
				category := classifyDutyDay(cfg, year, month, start, holidays)
				countCategory(stats.DutyDetail, category)
			}
		case CodeOff:
			stats.OffCount++
		case CodeLeave:
			stats.VacationCount += code.LeaveDays
		}
	}

	return stats
}

// classifyDutyDay 는 수동 접미사가 없는 당직 일자를 달력 규칙으로 분류한다.
// 우선순위: 공휴일/일요일 → 토요일(사용 시) → 금요일(사용 시) → 평일.
func classifyDutyDay(cfg *domain.DutyConfig, year int, month time.Month, day int, holidays HolidaySet) DutyCategory {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	weekday := date.Weekday()
	monthDay := fmt.Sprintf("%02d-%02d", int(month), day)

	switch {
	case holidays[monthDay] || weekday == time.Sunday:
		return CategoryHolidaySunday
	case weekday == time.Saturday && cfg.UseSaturday:
		return CategorySaturday
	case weekday == time.Friday && cfg.UseFriday:
		return CategoryFriday
	default:
		return CategoryWeekday
	}
}

func countCategory(detail *domain.DutyDetail, category DutyCategory) {
	switch category {
	case CategoryWeekday:
		detail.Weekday++
	case CategoryFriday:
		detail.Friday++
	case CategorySaturday:
		detail.Saturday++
	case CategoryHolidaySunday:
		detail.HolidaySunday++
	}
}

// Recalculate 는 집계 결과를 항목의 파생 필드에 반영한다.
func Recalculate(entry *domain.ScheduleEntry, cfg *domain.DutyConfig, year int, month time.Month, holidays HolidaySet) {
	stats := Aggregate(entry.WorkData, cfg, year, month, holidays)
	entry.NightCount = stats.NightCount
	entry.OffCount = stats.OffCount
	entry.VacationCount = stats.VacationCount
	entry.DutyDetail = stats.DutyDetail
}

// ParseYearMonth 는 "2026-09" 형식의 근무표 월 식별자를 해석한다.
func ParseYearMonth(yearMonth string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return 0, 0, fmt.Errorf("잘못된 근무표 월입니다: %q", yearMonth)
	}
	return t.Year(), t.Month(), nil
}
