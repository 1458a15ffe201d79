package utils

import (
	"fmt"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/approval"
	"github.com/hanul-soft/hr-portal/backend/internal/domain"
	"github.com/hanul-soft/hr-portal/backend/internal/schedule"
)

// ValidateApprovalLine 은 상신 전에 결재선 자체의 형식을 검사한다.
// 서명/상태 관련 검증은 상태 기계가 수행하고, 여기서는 요청으로 들어온
// 결재선이 말이 되는지만 본다.
func ValidateApprovalLine(line []approval.LineStep) error {
	if len(line) == 0 {
		return fmt.Errorf("결재선이 비어 있습니다")
	}

	deptHeadCount := 0
	seen := make(map[int64]bool)
	for i, step := range line {
		switch step.Kind {
		case domain.StepKindApprover:
		case domain.StepKindDeptHead:
			deptHeadCount++
		case domain.StepKindCreator:
			return fmt.Errorf("기안자는 결재선에 포함할 수 없습니다")
		default:
			return fmt.Errorf("알 수 없는 결재 단계 종류입니다: %s", step.Kind)
		}

		if step.Kind == domain.StepKindApprover && step.ApproverID == nil {
			return fmt.Errorf("%d번째 결재자가 지정되지 않았습니다", i+1)
		}
		if step.ApproverID != nil {
			if seen[*step.ApproverID] {
				return fmt.Errorf("같은 결재자가 결재선에 두 번 포함되어 있습니다")
			}
			seen[*step.ApproverID] = true
		}
	}

	if deptHeadCount > 1 {
		return fmt.Errorf("부서장 단계는 하나만 포함할 수 있습니다")
	}

	return nil
}

// ValidateAssignmentDays 는 할당 맵의 일자 키가 해당 월의 실제 일수를
// 벗어나지 않는지, 키끼리 겹치지 않는지 검사한다.
func ValidateAssignmentDays(a domain.ShiftAssignment, year int, month time.Month) error {
	if err := schedule.Validate(a); err != nil {
		return err
	}

	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	for key := range a {
		if schedule.IsReservedKey(key) {
			continue
		}
		_, end, ok := schedule.ParseDayKey(key)
		if !ok {
			return fmt.Errorf("잘못된 일자 키입니다: %q", key)
		}
		if end > lastDay {
			return fmt.Errorf("%d월은 %d일까지입니다: 키 %q", int(month), lastDay, key)
		}
	}

	return nil
}
