// Package export 는 근무표를 엑셀 통합문서와 iCalendar 피드로 변환한다.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
	"github.com/hanul-soft/hr-portal/backend/internal/schedule"
)

var weekdayNames = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// ExcelWorkbook 은 월 근무표 전체를 시트 하나로 만든다. 행은 직원, 열은
// 일자이고 오른쪽에 나이트/오프/휴가 집계 열이 붙는다.
func ExcelWorkbook(ws *domain.WorkSchedule, dept *domain.Department, entries []*domain.ScheduleEntry, users map[int64]*domain.User, holidays schedule.HolidaySet) (*excelize.File, error) {
	year, month, err := schedule.ParseYearMonth(ws.YearMonth)
	if err != nil {
		return nil, err
	}
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	f := excelize.NewFile()
	const sheet = "근무표"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	holidayStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "CC0000"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s %d년 %d월 근무표", dept.Name, year, int(month))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	// 2행: 일자, 3행: 요일
	if err := f.SetCellValue(sheet, "A2", "성명"); err != nil {
		return nil, err
	}
	for day := 1; day <= daysInMonth; day++ {
		cell, err := excelize.CoordinatesToCellName(day+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, day); err != nil {
			return nil, err
		}

		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		weekdayCell, err := excelize.CoordinatesToCellName(day+1, 3)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, weekdayCell, weekdayNames[int(date.Weekday())]); err != nil {
			return nil, err
		}

		monthDay := fmt.Sprintf("%02d-%02d", int(month), day)
		style := headerStyle
		if holidays[monthDay] || date.Weekday() == time.Sunday {
			style = holidayStyle
		}
		if err := f.SetCellStyle(sheet, cell, weekdayCell, style); err != nil {
			return nil, err
		}
	}

	statCols := []string{"나이트", "오프", "휴가"}
	for i, name := range statCols {
		cell, err := excelize.CoordinatesToCellName(daysInMonth+2+i, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, entry := range entries {
		row := i + 4
		name := fmt.Sprintf("(%d)", entry.UserID)
		if user, ok := users[entry.UserID]; ok {
			name = user.FullName
		}
		nameCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, nameCell, name); err != nil {
			return nil, err
		}

		normalized := schedule.Normalize(entry.WorkData)
		for key, value := range normalized {
			start, end, ok := schedule.ParseDayKey(key)
			if !ok {
				continue
			}

			display := value
			if code := schedule.ParseShiftCode(value, nil); code.Kind == schedule.CodeFreeText {
				display = code.Text
			}

			startCell, err := excelize.CoordinatesToCellName(start+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, startCell, display); err != nil {
				return nil, err
			}

			// 병합 셀은 엑셀에서도 병합해서 보여준다
			if end > start {
				endCell, err := excelize.CoordinatesToCellName(end+1, row)
				if err != nil {
					return nil, err
				}
				if err := f.MergeCell(sheet, startCell, endCell); err != nil {
					return nil, err
				}
			}
		}

		stats := []float64{float64(entry.NightCount), float64(entry.OffCount), entry.VacationCount}
		for j, value := range stats {
			cell, err := excelize.CoordinatesToCellName(daysInMonth+2+j, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
