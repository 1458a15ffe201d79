package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

const (
	// 근무 데이터 JSON 에 섞여 저장되는 예약 키. 집계에서 건너뛴다.
	KeyRowType       = "rowType"
	KeyLongTextValue = "longTextValue"

	// 병합 셀 값 접두사
	FreeTextPrefix = "텍스트:"
)

var ErrOverlappingAssignment = errors.New("해당 일자가 이미 다른 셀에 포함되어 있습니다")

func IsReservedKey(key string) bool {
	return key == KeyRowType || key == KeyLongTextValue
}

// ParseDayKey 는 "5" 혹은 "5-10" 형식의 키를 (시작일, 종료일)로 해석한다.
// 일자 키가 아니면 ok 가 false 이다.
func ParseDayKey(key string) (start int, end int, ok bool) {
	if IsReservedKey(key) {
		return 0, 0, false
	}

	if s, e, found := strings.Cut(key, "-"); found {
		start, err1 := strconv.Atoi(s)
		end, err2 := strconv.Atoi(e)
		if err1 != nil || err2 != nil || start < 1 || end < start {
			return 0, 0, false
		}
		return start, end, true
	}

	day, err := strconv.Atoi(key)
	if err != nil || day < 1 {
		return 0, 0, false
	}
	return day, day, true
}

// Clone 은 리듀서가 원본을 건드리지 않도록 할당 맵을 복사한다.
func Clone(a domain.ShiftAssignment) domain.ShiftAssignment {
	cloned := make(domain.ShiftAssignment, len(a))
	for k, v := range a {
		cloned[k] = v
	}
	return cloned
}

// Validate 는 한 일자가 두 키 이상에 포함되어 있으면 오류를 반환한다.
func Validate(a domain.ShiftAssignment) error {
	covered := make(map[int]string)
	for key := range a {
		start, end, ok := ParseDayKey(key)
		if !ok {
			continue
		}
		for day := start; day <= end; day++ {
			if prev, exists := covered[day]; exists {
				return fmt.Errorf("%w: %d일 (키 %q, %q)", ErrOverlappingAssignment, day, prev, key)
			}
			covered[day] = key
		}
	}
	return nil
}

// Normalize 는 이미 저장된 데이터에서 단일 일자 키가 범위 키와 겹치는 경우를
// 복구한다. 범위 키가 이기고, 가려진 단일 키는 버린다.
func Normalize(a domain.ShiftAssignment) domain.ShiftAssignment {
	inRange := make(map[int]bool)
	for key := range a {
		start, end, ok := ParseDayKey(key)
		if !ok || start == end {
			continue
		}
		for day := start; day <= end; day++ {
			inRange[day] = true
		}
	}

	normalized := make(domain.ShiftAssignment, len(a))
	for key, value := range a {
		start, end, ok := ParseDayKey(key)
		if ok && start == end && inRange[start] {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

// ConvertRangeToText 는 [start, end] 구간을 자유 텍스트 병합 셀 하나로 바꾼다.
// 구간 안의 단일 일자 키는 삭제되며, 기존 범위 키와 일부라도 겹치면 거부한다.
func ConvertRangeToText(a domain.ShiftAssignment, start, end int, text string) error {
	if start < 1 || end < start {
		return fmt.Errorf("잘못된 병합 구간입니다: %d-%d", start, end)
	}

	for key := range a {
		s, e, ok := ParseDayKey(key)
		if !ok || s == e {
			continue
		}
		if s <= end && start <= e {
			return fmt.Errorf("%w: 기존 병합 셀 %q", ErrOverlappingAssignment, key)
		}
	}

	for day := start; day <= end; day++ {
		delete(a, strconv.Itoa(day))
	}

	a[fmt.Sprintf("%d-%d", start, end)] = FreeTextPrefix + text
	return nil
}

// ConvertTextToCells 는 병합 셀을 해제하고 구간의 각 일자를 빈 셀로 되돌린다.
func ConvertTextToCells(a domain.ShiftAssignment, key string) error {
	start, end, ok := ParseDayKey(key)
	if !ok || start == end {
		return fmt.Errorf("병합 셀 키가 아닙니다: %q", key)
	}
	if _, exists := a[key]; !exists {
		return fmt.Errorf("병합 셀이 존재하지 않습니다: %q", key)
	}

	delete(a, key)
	for day := start; day <= end; day++ {
		a[strconv.Itoa(day)] = ""
	}
	return nil
}
