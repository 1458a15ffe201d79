package schedule

import (
	"strings"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

// 근무표 셀 값은 과거 포맷을 그대로 저장하고 있으므로, 문자열 해석은
// 전부 이 파일의 파서 하나를 거치게 해서 다른 곳으로 새지 않게 한다.

type CodeKind int

const (
	CodeEmpty CodeKind = iota
	CodeWork
	CodeOff
	CodeLeave
	CodeNight
	CodeNightWithLeave // HN: 나이트 1회 + 연차 0.5일
	CodeFreeText
	CodeOther
)

type WorkKind int

const (
	WorkDay WorkKind = iota
	WorkDay1
	WorkEvening
	WorkSubstitute // 대
)

type DutyCategory int

const (
	CategoryAuto DutyCategory = iota // 달력 규칙으로 자동 분류
	CategoryWeekday
	CategoryFriday
	CategorySaturday
	CategoryHolidaySunday
)

// ShiftCode 는 셀 값 하나를 해석한 결과이다.
type ShiftCode struct {
	Kind      CodeKind
	Work      WorkKind     // Kind == CodeWork
	LeaveDays float64      // Kind == CodeLeave / CodeNightWithLeave
	Category  DutyCategory // Kind == CodeNight, 수동 접미사가 없으면 CategoryAuto
	Text      string       // Kind == CodeFreeText
}

// ParseShiftCode 는 셀 값을 분류한다. 비교는 공백 제거 후 대소문자 구분 없이
// 수행한다. cfg 가 ON_CALL_DUTY 모드일 때만 설정된 기호가 당직으로 인식된다.
func ParseShiftCode(raw string, cfg *domain.DutyConfig) ShiftCode {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ShiftCode{Kind: CodeEmpty}
	}

	if rest, ok := strings.CutPrefix(trimmed, FreeTextPrefix); ok {
		return ShiftCode{Kind: CodeFreeText, Text: rest}
	}

	upper := strings.ToUpper(trimmed)

	if upper == "HN" {
		return ShiftCode{Kind: CodeNightWithLeave, LeaveDays: 0.5}
	}
	if upper == "N" || strings.HasPrefix(upper, "NIGHT") {
		return ShiftCode{Kind: CodeNight, Category: CategoryAuto}
	}

	// 당직 모드에서는 설정된 셀 기호도 당직으로 취급한다.
	// 기호 뒤에 1~3 이 붙으면 수동 분류이다(1 평일, 2 토요일, 3 휴일/일요일).
	if cfg != nil && cfg.DutyMode == domain.DutyModeOnCallDuty {
		sym := strings.ToUpper(strings.TrimSpace(cfg.CellSymbol))
		if sym != "" && strings.HasPrefix(upper, sym) {
			rest := upper[len(sym):]
			switch rest {
			case "":
				return ShiftCode{Kind: CodeNight, Category: CategoryAuto}
			case "1":
				return ShiftCode{Kind: CodeNight, Category: CategoryWeekday}
			case "2":
				return ShiftCode{Kind: CodeNight, Category: CategorySaturday}
			case "3":
				return ShiftCode{Kind: CodeNight, Category: CategoryHolidaySunday}
			default:
				return ShiftCode{Kind: CodeNight, Category: CategoryAuto}
			}
		}
	}

	if strings.HasPrefix(upper, "OFF") {
		return ShiftCode{Kind: CodeOff}
	}

	// 연차: "연" 이 포함된 모든 값("연", "연차" 등)은 1일로 집계한다.
	if strings.Contains(trimmed, "연") || upper == "AL" || upper == "ANNUAL" {
		return ShiftCode{Kind: CodeLeave, LeaveDays: 1}
	}
	if trimmed == "반차" || upper == "HD" || upper == "HE" {
		return ShiftCode{Kind: CodeLeave, LeaveDays: 0.5}
	}

	switch upper {
	case "D":
		return ShiftCode{Kind: CodeWork, Work: WorkDay}
	case "D1":
		return ShiftCode{Kind: CodeWork, Work: WorkDay1}
	case "E":
		return ShiftCode{Kind: CodeWork, Work: WorkEvening}
	}
	if trimmed == "대" {
		return ShiftCode{Kind: CodeWork, Work: WorkSubstitute}
	}

	return ShiftCode{Kind: CodeOther}
}

// IsNight 는 나이트로 집계되는 코드인지 여부이다.
func (c ShiftCode) IsNight() bool {
	return c.Kind == CodeNight || c.Kind == CodeNightWithLeave
}

// IsDayShift 는 연속 패턴 검사에서 "데이 근무"로 보는 코드(D, D1, 대)인지 여부이다.
func (c ShiftCode) IsDayShift() bool {
	if c.Kind != CodeWork {
		return false
	}
	return c.Work == WorkDay || c.Work == WorkDay1 || c.Work == WorkSubstitute
}
