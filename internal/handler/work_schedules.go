package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hanul-soft/hr-portal/backend/internal/approval"
	"github.com/hanul-soft/hr-portal/backend/internal/domain"
	"github.com/hanul-soft/hr-portal/backend/internal/schedule"
	"github.com/hanul-soft/hr-portal/backend/internal/utils"
)

func (h *Handler) CreateWorkSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		YearMonth    string `json:"yearMonth" validate:"required"`
		DepartmentID int64  `json:"departmentId" validate:"required"`
		Remarks      string `json:"remarks" validate:"max=200"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, _, err := schedule.ParseYearMonth(req.YearMonth); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	// 부서관리자는 자기 부서의 근무표만 만들 수 있다
	if myInfo.Role == domain.RoleDeptManager {
		if myInfo.DepartmentID == nil || *myInfo.DepartmentID != req.DepartmentID {
			h.errorResponse(w, r, "다른 부서의 근무표는 만들 수 없습니다")
			return
		}
	}

	ws := &domain.WorkSchedule{
		YearMonth:    req.YearMonth,
		DepartmentID: req.DepartmentID,
		Status:       domain.ScheduleStatusDraft,
		Remarks:      req.Remarks,
		CreatedBy:    myInfo.ID,
	}

	if err := h.repository.CreateWorkSchedule(ws); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.ConstraintName {
			case "work_schedules_year_month_department_id_key":
				h.errorResponse(w, r, "해당 월의 근무표가 이미 있습니다")
			case "work_schedules_department_id_fkey":
				h.errorResponse(w, r, "부서가 존재하지 않습니다")
			default:
				h.internalServerError(w, r, err)
			}
		} else {
			h.internalServerError(w, r, err)
		}
		return
	}

	// 부서의 재직 중인 직원을 근무표에 자동으로 올린다
	users, err := h.repository.GetUsersByDepartmentID(req.DepartmentID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	for _, user := range users {
		if !user.IsActive {
			continue
		}
		entry := &domain.ScheduleEntry{
			WorkScheduleID: ws.ID,
			UserID:         user.ID,
			WorkData:       domain.ShiftAssignment{},
		}
		if err := h.repository.CreateScheduleEntry(entry); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "근무표 생성 성공", ws)
}

func (h *Handler) GetWorkSchedules(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var departmentID int64
	if raw := r.URL.Query().Get("departmentId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "부서 ID가 올바르지 않습니다")
			return
		}
		departmentID = parsed
	} else if myInfo.DepartmentID != nil {
		departmentID = *myInfo.DepartmentID
	}

	// 인사관리자가 아니면 자기 부서만 조회할 수 있다
	if myInfo.Role != domain.RoleHRAdmin {
		if myInfo.DepartmentID == nil || *myInfo.DepartmentID != departmentID {
			h.errorResponse(w, r, "다른 부서의 근무표는 조회할 수 없습니다")
			return
		}
	}

	schedules, err := h.repository.GetWorkSchedulesByDepartmentID(departmentID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "근무표 목록 조회 성공", schedules)
}

func (h *Handler) GetWorkScheduleDetail(w http.ResponseWriter, r *http.Request) {
	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if myInfo.Role != domain.RoleHRAdmin {
		if myInfo.DepartmentID == nil || *myInfo.DepartmentID != ws.DepartmentID {
			h.errorResponse(w, r, "다른 부서의 근무표는 조회할 수 없습니다")
			return
		}
	}

	entries, err := h.repository.GetScheduleEntries(ws.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	steps, err := h.repository.GetApprovalSteps(ws.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	dutyConfig, err := h.repository.GetDutyConfig(ws.DepartmentID, ws.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}

	// 그리드 렌더링에 필요한 부서 직원과 직책도 함께 내려준다
	users, err := h.repository.GetUsersByDepartmentID(ws.DepartmentID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	positions, err := h.repository.GetPositionsByDepartmentID(ws.DepartmentID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "근무표 조회 성공", map[string]any{
		"workSchedule":  ws,
		"entries":       entries,
		"approvalSteps": steps,
		"dutyConfig":    dutyConfig,
		"users":         users,
		"positions":     positions,
	})
}

func (h *Handler) UpdateScheduleRemarks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Remarks string `json:"remarks" validate:"max=200"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	machine, err := h.loadMachine(ws)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !machine.CanEdit(myInfo) {
		h.errorResponse(w, r, "지금은 근무표를 수정할 수 없습니다")
		return
	}

	ws.Remarks = req.Remarks
	if err := h.repository.UpdateWorkSchedule(ws); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "다른 곳에서 먼저 수정했습니다. 새로고침 후 다시 시도해 주세요")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "근무표 비고 수정 성공", ws)
}

func (h *Handler) DeleteWorkSchedule(w http.ResponseWriter, r *http.Request) {
	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	// 작성 중인 근무표만 삭제할 수 있다
	if ws.Status != domain.ScheduleStatusDraft {
		h.errorResponse(w, r, "결재가 시작된 근무표는 삭제할 수 없습니다")
		return
	}
	if myInfo.Role != domain.RoleHRAdmin && myInfo.ID != ws.CreatedBy {
		h.errorResponse(w, r, "작성자만 근무표를 삭제할 수 있습니다")
		return
	}

	if err := h.repository.DeleteWorkSchedule(ws.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "근무표 삭제 성공", nil)
}

// loadMachine 은 근무표와 결재 단계를 묶어 상태 기계를 만든다.
func (h *Handler) loadMachine(ws *domain.WorkSchedule) (*approval.Machine, error) {
	steps, err := h.repository.GetApprovalSteps(ws.ID)
	if err != nil {
		return nil, err
	}
	return approval.New(ws, steps), nil
}

func cellCommandFromRequest(kind string, req cellEditRequest) (schedule.CellCommand, error) {
	switch kind {
	case "SET_CELL":
		return schedule.CellCommand{Kind: schedule.CmdSetCell, Day: req.Day, Value: req.Value}, nil
	case "CLEAR_CELL":
		return schedule.CellCommand{Kind: schedule.CmdClearCell, Day: req.Day}, nil
	case "MERGE_RANGE":
		return schedule.CellCommand{Kind: schedule.CmdMergeRange, StartDay: req.StartDay, EndDay: req.EndDay, Text: req.Text}, nil
	case "UNMERGE_RANGE":
		return schedule.CellCommand{Kind: schedule.CmdUnmergeRange, StartDay: req.StartDay, EndDay: req.EndDay}, nil
	case "SET_REMARKS":
		return schedule.CellCommand{Kind: schedule.CmdSetRemarks, Remarks: req.Remarks}, nil
	case "SET_REQUIRED_NIGHTS":
		return schedule.CellCommand{Kind: schedule.CmdSetRequiredNights, Required: req.Required}, nil
	case "SET_POSITION":
		return schedule.CellCommand{Kind: schedule.CmdSetPosition, PositionID: req.PositionID}, nil
	default:
		return schedule.CellCommand{}, errors.New("알 수 없는 편집 명령입니다: " + kind)
	}
}

type cellEditRequest struct {
	Day        int    `json:"day"`
	StartDay   int    `json:"startDay"`
	EndDay     int    `json:"endDay"`
	Value      string `json:"value"`
	Text       string `json:"text"`
	Remarks    string `json:"remarks"`
	Required   int32  `json:"required"`
	PositionID *int64 `json:"positionId"`
}

func (h *Handler) UpdateWorkData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryID int64           `json:"entryId" validate:"required"`
		Kind    string          `json:"kind" validate:"required"`
		Edit    cellEditRequest `json:"edit"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	machine, err := h.loadMachine(ws)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !machine.CanEdit(myInfo) {
		h.errorResponse(w, r, "지금은 근무표를 수정할 수 없습니다")
		return
	}

	entry, err := h.repository.GetScheduleEntryByID(req.EntryID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "근무표 항목이 존재하지 않습니다")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if entry.WorkScheduleID != ws.ID {
		h.errorResponse(w, r, "이 근무표의 항목이 아닙니다")
		return
	}

	cmd, err := cellCommandFromRequest(req.Kind, req.Edit)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	next, err := schedule.ApplyCellEdit(*entry, cmd)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	year, month, err := schedule.ParseYearMonth(ws.YearMonth)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateAssignmentDays(next.WorkData, year, month); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	dutyConfig, err := h.repository.GetDutyConfig(ws.DepartmentID, ws.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}

	// 공휴일 조회가 실패해도 편집 자체는 막지 않는다. 당직 분류만 평일 기준이 된다.
	holidays, err := h.holidays.Resolve(r.Context(), year)
	if err != nil {
		slog.Warn("공휴일 조회 실패", "year", year, "error", err)
		holidays = schedule.HolidaySet{}
	}

	schedule.Recalculate(&next, dutyConfig, year, month, holidays)

	if err := h.repository.UpdateScheduleEntries([]*domain.ScheduleEntry{&next}); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "다른 곳에서 먼저 수정했습니다. 새로고침 후 다시 시도해 주세요")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	warnings := schedule.CheckConsecutivePatterns(next.WorkData, dutyConfig)

	h.successResponse(w, r, "근무표 수정 성공", map[string]any{
		"entry":    next,
		"warnings": warnings,
	})
}

func (h *Handler) AddScheduleMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     int64  `json:"userId" validate:"required"`
		PositionID *int64 `json:"positionId"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	machine, err := h.loadMachine(ws)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !machine.CanEdit(myInfo) {
		h.errorResponse(w, r, "지금은 근무표를 수정할 수 없습니다")
		return
	}

	user, err := h.repository.GetUserByID(req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "직원이 존재하지 않습니다")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if user.DepartmentID == nil || *user.DepartmentID != ws.DepartmentID {
		h.errorResponse(w, r, "다른 부서의 직원은 추가할 수 없습니다")
		return
	}

	entry := &domain.ScheduleEntry{
		WorkScheduleID: ws.ID,
		UserID:         req.UserID,
		WorkData:       domain.ShiftAssignment{},
		PositionID:     req.PositionID,
	}

	if err := h.repository.CreateScheduleEntry(entry); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "schedule_entries_work_schedule_id_user_id_key" {
			h.errorResponse(w, r, "이미 근무표에 포함된 직원입니다")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "근무표 구성원 추가 성공", entry)
}

func (h *Handler) RemoveScheduleMember(w http.ResponseWriter, r *http.Request) {
	entryID, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "항목 ID가 올바르지 않습니다")
		return
	}

	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	machine, err := h.loadMachine(ws)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !machine.CanEdit(myInfo) {
		h.errorResponse(w, r, "지금은 근무표를 수정할 수 없습니다")
		return
	}

	entry, err := h.repository.GetScheduleEntryByID(entryID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "근무표 항목이 존재하지 않습니다")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if entry.WorkScheduleID != ws.ID {
		h.errorResponse(w, r, "이 근무표의 항목이 아닙니다")
		return
	}

	if err := h.repository.DeleteScheduleEntry(entryID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "근무표 구성원 삭제 성공", nil)
}
