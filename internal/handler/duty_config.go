package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func (h *Handler) GetDeptDutyConfig(w http.ResponseWriter, r *http.Request) {
	departmentID, err := strconv.ParseInt(r.URL.Query().Get("departmentId"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "부서 ID가 올바르지 않습니다")
		return
	}

	var workScheduleID int64
	if raw := r.URL.Query().Get("workScheduleId"); raw != "" {
		workScheduleID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "근무표 ID가 올바르지 않습니다")
			return
		}
	}

	cfg, err := h.repository.GetDutyConfig(departmentID, workScheduleID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "당직 설정이 없습니다")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "당직 설정 조회 성공", cfg)
}

func (h *Handler) SaveDeptDutyConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DepartmentID   int64  `json:"departmentId" validate:"required"`
		WorkScheduleID *int64 `json:"workScheduleId"`
		DutyMode       string `json:"dutyMode" validate:"required,oneof=NIGHT_SHIFT ON_CALL_DUTY"`
		DisplayName    string `json:"displayName" validate:"required,max=30"`
		CellSymbol     string `json:"cellSymbol" validate:"required,max=10"`
		UseWeekday     bool   `json:"useWeekday"`
		UseFriday      bool   `json:"useFriday"`
		UseSaturday    bool   `json:"useSaturday"`
		UseHoliday     bool   `json:"useHoliday"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	cfg := &domain.DutyConfig{
		DepartmentID:   req.DepartmentID,
		WorkScheduleID: req.WorkScheduleID,
		DutyMode:       domain.DutyMode(req.DutyMode),
		DisplayName:    req.DisplayName,
		CellSymbol:     req.CellSymbol,
		UseWeekday:     req.UseWeekday,
		UseFriday:      req.UseFriday,
		UseSaturday:    req.UseSaturday,
		UseHoliday:     req.UseHoliday,
	}

	if err := h.repository.UpsertDutyConfig(cfg); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "당직 설정 저장 성공", cfg)
}
