package schedule

import (
	"fmt"
	"sort"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

// CheckConsecutivePatterns 는 나이트 → 휴무 → 데이로 이어지는 3일 연속
// 패턴을 찾아 경고 문구를 반환한다. 경고는 안내용일 뿐이며 편집을 막지
// 않는다. 이 외의 패턴은 검사하지 않는다. cfg 는 당직 기호처럼 부서
// 설정에 따라 나이트로 집계되는 코드를 가려내는 데 쓰인다.
func CheckConsecutivePatterns(a domain.ShiftAssignment, cfg *domain.DutyConfig) []string {
	values := make(map[int]string)
	days := make([]int, 0, len(a))
	for key, value := range a {
		start, end, ok := ParseDayKey(key)
		if !ok || start != end {
			continue
		}
		values[start] = value
		days = append(days, start)
	}
	sort.Ints(days)

	var warnings []string
	for _, day := range days {
		first, ok1 := values[day]
		second, ok2 := values[day+1]
		third, ok3 := values[day+2]
		if !ok1 || !ok2 || !ok3 {
			continue
		}

		if !ParseShiftCode(first, cfg).IsNight() {
			continue
		}
		if ParseShiftCode(second, cfg).Kind != CodeOff {
			continue
		}
		if !ParseShiftCode(third, cfg).IsDayShift() {
			continue
		}

		warnings = append(warnings, fmt.Sprintf(
			"%d일(%s) → %d일(%s) → %d일(%s): 나이트 근무 후 하루 휴무 뒤 바로 데이 근무입니다",
			day, first, day+1, second, day+2, third,
		))
	}

	return warnings
}
