package export

import (
	"strings"
	"testing"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
	"github.com/hanul-soft/hr-portal/backend/internal/schedule"
)

func sampleSchedule() (*domain.WorkSchedule, *domain.Department, *domain.User, *domain.ScheduleEntry) {
	deptID := int64(1)
	ws := &domain.WorkSchedule{ID: 1, YearMonth: "2026-09", DepartmentID: deptID}
	dept := &domain.Department{ID: deptID, Name: "간호부"}
	user := &domain.User{ID: 10, FullName: "김하은", DepartmentID: &deptID}
	entry := &domain.ScheduleEntry{
		ID:             1,
		WorkScheduleID: ws.ID,
		UserID:         user.ID,
		WorkData: domain.ShiftAssignment{
			"1":   "N",
			"2":   "Off",
			"3":   "D",
			"5-7": "텍스트:병가",
		},
		NightCount:    1,
		OffCount:      1,
		VacationCount: 1.5,
	}
	return ws, dept, user, entry
}

func TestExcelWorkbook(t *testing.T) {
	ws, dept, user, entry := sampleSchedule()
	users := map[int64]*domain.User{user.ID: user}

	f, err := ExcelWorkbook(ws, dept, []*domain.ScheduleEntry{entry}, users, schedule.HolidaySet{})
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	const sheet = "근무표"

	title, err := f.GetCellValue(sheet, "A1")
	if err != nil {
		t.Fatalf("read title: %v", err)
	}
	if !strings.Contains(title, "간호부") || !strings.Contains(title, "2026년 9월") {
		t.Errorf("title = %q", title)
	}

	name, err := f.GetCellValue(sheet, "A4")
	if err != nil {
		t.Fatal(err)
	}
	if name != "김하은" {
		t.Errorf("name cell = %q, want 김하은", name)
	}

	// 1일은 B열(2번째 열)이다
	day1, err := f.GetCellValue(sheet, "B4")
	if err != nil {
		t.Fatal(err)
	}
	if day1 != "N" {
		t.Errorf("day 1 cell = %q, want N", day1)
	}

	// 병합 셀은 텍스트: 접두사 없이 내용만 적힌다
	merged, err := f.GetCellValue(sheet, "F4")
	if err != nil {
		t.Fatal(err)
	}
	if merged != "병가" {
		t.Errorf("merged cell = %q, want 병가", merged)
	}

	// 통계 열은 마지막 날짜 열 뒤에 온다. 9월은 30일까지라 AF열부터다
	for cell, want := range map[string]string{"AF4": "1", "AG4": "1", "AH4": "1.5"} {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestDutyCalendar(t *testing.T) {
	ws, dept, user, entry := sampleSchedule()

	feed, err := DutyCalendar(ws, entry, user, dept)
	if err != nil {
		t.Fatalf("build calendar: %v", err)
	}

	if !strings.Contains(feed, "BEGIN:VCALENDAR") || !strings.Contains(feed, "END:VCALENDAR") {
		t.Fatal("feed is not a calendar")
	}
	if !strings.Contains(feed, "SUMMARY:N") {
		t.Error("missing night event")
	}
	if !strings.Contains(feed, "SUMMARY:병가") {
		t.Error("merged cell should become one event with its text")
	}
	// 빈 값이 아닌 셀 수만큼 일정이 생긴다
	if got := strings.Count(feed, "BEGIN:VEVENT"); got != 4 {
		t.Errorf("got %d events, want 4", got)
	}
}
