package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
	"github.com/hanul-soft/hr-portal/backend/internal/export"
	"github.com/hanul-soft/hr-portal/backend/internal/schedule"
)

func pdfJobKey(jobID string) string {
	return fmt.Sprintf("pdf_job_%s", jobID)
}

// DownloadPDF 는 PDF 생성 작업을 큐에 올리고 작업 ID 를 반환한다. 렌더링은
// 외부 워커가 수행하고, 진행 상태는 redis 의 작업 키로 조회한다.
// jobId 쿼리로 재요청하면 해당 작업의 상태를 돌려준다.
func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if jobID := r.URL.Query().Get("jobId"); jobID != "" {
		status, err := h.redisClient.Get(r.Context(), pdfJobKey(jobID)).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				h.errorResponse(w, r, "작업이 존재하지 않거나 만료되었습니다")
				return
			}
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "PDF 작업 상태 조회 성공", map[string]any{
			"jobId":  jobID,
			"status": status,
		})
		return
	}

	jobID := uuid.NewString()
	msg := domain.PDFJobMessage{
		JobID:          jobID,
		WorkScheduleID: ws.ID,
		RequestedBy:    myInfo.ID,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	jobTTL := time.Duration(h.config.PDF.JobTTL) * time.Second
	if err := h.redisClient.Set(r.Context(), pdfJobKey(jobID), "PENDING", jobTTL).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"pdf_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusAccepted, Response{
		Success: true,
		Message: "PDF 생성 작업을 접수했습니다",
		Data: map[string]any{
			"jobId": jobID,
		},
	})
}

func (h *Handler) DownloadExcel(w http.ResponseWriter, r *http.Request) {
	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)

	dept, err := h.repository.GetDepartmentByID(ws.DepartmentID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	entries, err := h.repository.GetScheduleEntries(ws.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	deptUsers, err := h.repository.GetUsersByDepartmentID(ws.DepartmentID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	users := make(map[int64]*domain.User, len(deptUsers))
	for _, user := range deptUsers {
		users[user.ID] = user
	}

	year, _, err := schedule.ParseYearMonth(ws.YearMonth)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	holidays, err := h.holidays.Resolve(r.Context(), year)
	if err != nil {
		slog.Warn("공휴일 조회 실패", "year", year, "error", err)
		holidays = schedule.HolidaySet{}
	}

	workbook, err := export.ExcelWorkbook(ws, dept, entries, users, holidays)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("%s_%s.xlsx", dept.Name, ws.YearMonth)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := workbook.Write(w); err != nil {
		h.logInternalServerError(r, err)
	}
}

// DownloadDutyCalendar 는 직원 한 명의 근무를 iCalendar 피드로 내려준다.
func (h *Handler) DownloadDutyCalendar(w http.ResponseWriter, r *http.Request) {
	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	userID := myInfo.ID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "직원 ID가 올바르지 않습니다")
			return
		}
		// 다른 직원의 일정은 관리자만 받을 수 있다
		if parsed != myInfo.ID && myInfo.Role == domain.RoleStaff {
			h.errorResponse(w, r, "권한이 없습니다")
			return
		}
		userID = parsed
	}

	entries, err := h.repository.GetScheduleEntries(ws.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var entry *domain.ScheduleEntry
	for _, e := range entries {
		if e.UserID == userID {
			entry = e
			break
		}
	}
	if entry == nil {
		h.errorResponse(w, r, "근무표에 포함되지 않은 직원입니다")
		return
	}

	user, err := h.repository.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "직원이 존재하지 않습니다")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	dept, err := h.repository.GetDepartmentByID(ws.DepartmentID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	feed, err := export.DutyCalendar(ws, entry, user, dept)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.ics"`, user.FullName, ws.YearMonth))
	if _, err := w.Write([]byte(feed)); err != nil {
		h.logInternalServerError(r, err)
	}
}
