package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "DRAFT"
	ScheduleStatusSubmitted ScheduleStatus = "SUBMITTED"
	ScheduleStatusRejected  ScheduleStatus = "REJECTED"
	ScheduleStatusApproved  ScheduleStatus = "APPROVED"
)

// ShiftAssignment 은 일자 키("5" 또는 "5-10")에 근무 코드를 매핑한다.
// 병합 셀의 값은 "텍스트:<내용>" 형식이다.
type ShiftAssignment map[string]string

// DutyDetail 은 ON_CALL_DUTY 모드에서만 채워지는 당직 상세 집계이다.
type DutyDetail struct {
	Weekday       int32 `json:"weekday"`
	Friday        int32 `json:"friday"`
	Saturday      int32 `json:"saturday"`
	HolidaySunday int32 `json:"holidaySunday"`
}

type WorkSchedule struct {
	ID              int64          `json:"id"`
	YearMonth       string         `json:"yearMonth"` // "2026-09"
	DepartmentID    int64          `json:"departmentID"`
	Status          ScheduleStatus `json:"status"`
	Remarks         string         `json:"remarks"`
	IsFinalApproved bool           `json:"isFinalApproved"` // 승인 후 확정 잠금
	FinalApproverID *int64         `json:"finalApproverID"`
	FinalApprovedAt *time.Time     `json:"finalApprovedAt"`
	CreatedBy       int64          `json:"createdBy"`
	CreatedAt       time.Time      `json:"createdAt"`
	Version         int32          `json:"-"`
}

type ScheduleEntry struct {
	ID                int64           `json:"id"`
	WorkScheduleID    int64           `json:"workScheduleID"`
	UserID            int64           `json:"userID"`
	WorkData          ShiftAssignment `json:"workData"`
	NightDutyRequired int32           `json:"nightDutyRequired"`
	NightCount        int32           `json:"nightCount"`    // 파생 필드
	OffCount          int32           `json:"offCount"`      // 파생 필드
	VacationCount     float64         `json:"vacationCount"` // 파생 필드, 반차는 0.5
	DutyDetail        *DutyDetail     `json:"dutyDetail"`
	PositionID        *int64          `json:"positionID"`
	Remarks           string          `json:"remarks"`
	Version           int32           `json:"-"`
}

// NightDutyAdditional 은 실제 나이트 수에서 의무 나이트 수를 뺀 값이다.
func (e *ScheduleEntry) NightDutyAdditional() int32 {
	return e.NightCount - e.NightDutyRequired
}
