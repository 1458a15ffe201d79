package export

import (
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
	"github.com/hanul-soft/hr-portal/backend/internal/schedule"
)

// DutyCalendar 는 직원 한 명의 한 달 근무를 종일 일정 피드로 만든다.
// 빈 칸은 건너뛰고, 병합 셀은 구간 전체를 덮는 일정 하나가 된다.
func DutyCalendar(ws *domain.WorkSchedule, entry *domain.ScheduleEntry, user *domain.User, dept *domain.Department) (string, error) {
	year, month, err := schedule.ParseYearMonth(ws.YearMonth)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//hanul-soft//hr-portal//KO")
	cal.SetName(fmt.Sprintf("%s %s 근무표", dept.Name, user.FullName))

	normalized := schedule.Normalize(entry.WorkData)

	keys := make([]string, 0, len(normalized))
	for key := range normalized {
		if _, _, ok := schedule.ParseDayKey(key); ok {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		si, _, _ := schedule.ParseDayKey(keys[i])
		sj, _, _ := schedule.ParseDayKey(keys[j])
		return si < sj
	})

	for _, key := range keys {
		value := normalized[key]
		code := schedule.ParseShiftCode(value, nil)
		if code.Kind == schedule.CodeEmpty {
			continue
		}

		summary := value
		if code.Kind == schedule.CodeFreeText {
			summary = code.Text
		}

		start, end, _ := schedule.ParseDayKey(key)
		startDate := time.Date(year, month, start, 0, 0, 0, 0, time.UTC)
		// DTEND 는 exclusive 이므로 마지막 날의 다음 날이다
		endDate := time.Date(year, month, end+1, 0, 0, 0, 0, time.UTC)

		event := cal.AddEvent(uuid.NewString())
		event.SetDtStampTime(time.Now())
		event.SetAllDayStartAt(startDate)
		event.SetAllDayEndAt(endDate)
		event.SetSummary(summary)
		event.SetDescription(fmt.Sprintf("%s %s", dept.Name, user.FullName))
	}

	return cal.Serialize(), nil
}
