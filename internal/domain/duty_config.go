package domain

import "time"

type DutyMode string

const (
	DutyModeNightShift DutyMode = "NIGHT_SHIFT"
	DutyModeOnCallDuty DutyMode = "ON_CALL_DUTY"
)

// DutyConfig 는 부서별, 근무표별 당직 설정이다. 두 모드는 상호 배타적이며
// 카테고리 토글은 ON_CALL_DUTY 모드에서만 의미가 있다.
type DutyConfig struct {
	ID             int64     `json:"id"`
	DepartmentID   int64     `json:"departmentID"`
	WorkScheduleID *int64    `json:"workScheduleID"` // nil 이면 부서 기본값
	DutyMode       DutyMode  `json:"dutyMode"`
	DisplayName    string    `json:"displayName"`
	CellSymbol     string    `json:"cellSymbol"` // 셀에 표기되는 1글자 기호
	UseWeekday     bool      `json:"useWeekday"`
	UseFriday      bool      `json:"useFriday"`
	UseSaturday    bool      `json:"useSaturday"`
	UseHoliday     bool      `json:"useHoliday"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
