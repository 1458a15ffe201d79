package schedule

import (
	"fmt"
	"strconv"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

type CommandKind int

const (
	CmdSetCell CommandKind = iota
	CmdClearCell
	CmdMergeRange
	CmdUnmergeRange
	CmdSetRemarks
	CmdSetRequiredNights
	CmdSetPosition
)

// CellCommand 는 근무표 항목 하나에 대한 변경 명령이다.
type CellCommand struct {
	Kind       CommandKind
	Day        int    // CmdSetCell, CmdClearCell
	StartDay   int    // CmdMergeRange, CmdUnmergeRange
	EndDay     int    // CmdMergeRange, CmdUnmergeRange
	Value      string // CmdSetCell
	Text       string // CmdMergeRange
	Remarks    string // CmdSetRemarks
	Required   int32  // CmdSetRequiredNights
	PositionID *int64 // CmdSetPosition
}

// ApplyCellEdit 은 항목에 대한 모든 변경을 하나의 경로로 모으는 리듀서이다.
// 원본은 수정하지 않고 변경이 반영된 복사본을 반환하며, 오류가 나면 입력을
// 그대로 돌려준다. 파생 필드 재계산(Recalculate)은 호출자가 이어서 수행한다.
func ApplyCellEdit(entry domain.ScheduleEntry, cmd CellCommand) (domain.ScheduleEntry, error) {
	next := entry
	next.WorkData = Clone(entry.WorkData)
	if next.WorkData == nil {
		next.WorkData = domain.ShiftAssignment{}
	}

	switch cmd.Kind {
	case CmdSetCell:
		if cmd.Day < 1 {
			return entry, fmt.Errorf("잘못된 일자입니다: %d", cmd.Day)
		}
		if key, covered := rangeKeyCovering(next.WorkData, cmd.Day); covered {
			return entry, fmt.Errorf("%w: %d일은 병합 셀 %q 안에 있습니다", ErrOverlappingAssignment, cmd.Day, key)
		}
		next.WorkData[strconv.Itoa(cmd.Day)] = cmd.Value

	case CmdClearCell:
		if cmd.Day < 1 {
			return entry, fmt.Errorf("잘못된 일자입니다: %d", cmd.Day)
		}
		if key, covered := rangeKeyCovering(next.WorkData, cmd.Day); covered {
			return entry, fmt.Errorf("%w: %d일은 병합 셀 %q 안에 있습니다", ErrOverlappingAssignment, cmd.Day, key)
		}
		next.WorkData[strconv.Itoa(cmd.Day)] = ""

	case CmdMergeRange:
		if err := ConvertRangeToText(next.WorkData, cmd.StartDay, cmd.EndDay, cmd.Text); err != nil {
			return entry, err
		}

	case CmdUnmergeRange:
		key := fmt.Sprintf("%d-%d", cmd.StartDay, cmd.EndDay)
		if err := ConvertTextToCells(next.WorkData, key); err != nil {
			return entry, err
		}

	case CmdSetRemarks:
		next.Remarks = cmd.Remarks

	case CmdSetRequiredNights:
		if cmd.Required < 0 {
			return entry, fmt.Errorf("의무 나이트 수는 음수일 수 없습니다: %d", cmd.Required)
		}
		next.NightDutyRequired = cmd.Required

	case CmdSetPosition:
		next.PositionID = cmd.PositionID

	default:
		return entry, fmt.Errorf("알 수 없는 편집 명령입니다: %d", cmd.Kind)
	}

	return next, nil
}

func rangeKeyCovering(a domain.ShiftAssignment, day int) (string, bool) {
	for key := range a {
		start, end, ok := ParseDayKey(key)
		if !ok || start == end {
			continue
		}
		if start <= day && day <= end {
			return key, true
		}
	}
	return "", false
}
