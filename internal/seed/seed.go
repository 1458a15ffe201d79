package seed

import (
	"log/slog"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/config"
	"github.com/hanul-soft/hr-portal/backend/internal/domain"
	"github.com/hanul-soft/hr-portal/backend/internal/repository"
	"github.com/hanul-soft/hr-portal/backend/internal/schedule"
	"github.com/hanul-soft/hr-portal/backend/internal/utils"
)

var departmentNames = []string{"간호부", "원무과", "영상의학과", "진단검사의학과"}

var positionNames = []string{"책임간호사", "주임", "평직원"}

// SeedDemoData 는 개발 환경용 부서, 직원, 이번 달 근무표를 만든다.
// 이미 같은 이름의 부서가 있으면 그 부서는 건너뛴다.
func SeedDemoData(cfg *config.Config, repo *repository.Repository, usersPerDept int) {
	now := time.Now()
	yearMonth := now.Format("2006-01")

	for _, name := range departmentNames {
		dept := &domain.Department{Name: name}
		if err := repo.CreateDepartment(dept); err != nil {
			slog.Error("부서 생성 실패", "name", name, "error", err)
			continue
		}

		for _, positionName := range positionNames {
			position := &domain.Position{DepartmentID: dept.ID, Name: positionName}
			if err := repo.CreatePosition(position); err != nil {
				slog.Error("직책 생성 실패", "name", positionName, "error", err)
			}
		}

		// 부서원 생성. 첫 번째 부서관리자를 부서장으로 지정한다.
		users := make([]*domain.User, 0, usersPerDept)
		for i := 0; i < usersPerDept; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain, dept.ID)
			if err != nil {
				slog.Error("사용자 생성 실패", "error", err)
				continue
			}
			if err := repo.CreateUser(user); err != nil {
				slog.Error("사용자 삽입 실패", "username", user.Username, "error", err)
				continue
			}
			users = append(users, user)

			if dept.ManagerID == nil && user.Role == domain.RoleDeptManager {
				dept.ManagerID = &user.ID
			}
		}

		if len(users) == 0 {
			continue
		}

		// 이번 달 근무표와 항목을 생성한다.
		ws := &domain.WorkSchedule{
			YearMonth:    yearMonth,
			DepartmentID: dept.ID,
			Status:       domain.ScheduleStatusDraft,
			CreatedBy:    users[0].ID,
		}
		if err := repo.CreateWorkSchedule(ws); err != nil {
			slog.Error("근무표 생성 실패", "yearMonth", yearMonth, "error", err)
			continue
		}

		year, month, err := schedule.ParseYearMonth(yearMonth)
		if err != nil {
			slog.Error("근무표 월 해석 실패", "yearMonth", yearMonth, "error", err)
			continue
		}

		for _, user := range users {
			entry := &domain.ScheduleEntry{
				WorkScheduleID:    ws.ID,
				UserID:            user.ID,
				WorkData:          utils.GenerateRandomAssignment(year, month),
				NightDutyRequired: 4,
			}
			if err := repo.CreateScheduleEntry(entry); err != nil {
				slog.Error("근무표 항목 삽입 실패", "userID", user.ID, "error", err)
				continue
			}

			schedule.Recalculate(entry, nil, year, month, nil)
			if err := repo.UpdateScheduleEntries([]*domain.ScheduleEntry{entry}); err != nil {
				slog.Error("근무표 항목 집계 저장 실패", "entryID", entry.ID, "error", err)
			}
		}

		slog.Info("부서 시드 완료", "department", name, "users", len(users))
	}
}
