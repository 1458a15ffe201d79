package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hanul-soft/hr-portal/backend/internal/approval"
	"github.com/hanul-soft/hr-portal/backend/internal/domain"
	"github.com/hanul-soft/hr-portal/backend/internal/utils"
)

// publishMail 은 알림 메일을 메시지 큐에 올린다. 메일은 부가 기능이므로
// 발행 실패가 결재 처리를 되돌리지는 않는다.
func (h *Handler) publishMail(msg domain.MailMessage) {
	mailData, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("메일 메시지 직렬화 실패", "type", msg.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		slog.Warn("메일 발행 실패", "type", msg.Type, "to", msg.To, "error", err)
	}
}

// notifyCurrentApprover 는 현재 차례인 결재자에게 결재 요청 메일을 보낸다.
func (h *Handler) notifyCurrentApprover(machine *approval.Machine) {
	var current *domain.ApprovalStep
	for _, step := range machine.Steps {
		if step.IsCurrent && step.Kind != domain.StepKindCreator {
			current = step
			break
		}
	}
	if current == nil || current.ApproverID == nil {
		return
	}

	approver, err := h.repository.GetUserByID(*current.ApproverID)
	if err != nil {
		slog.Warn("결재자 조회 실패", "approverID", *current.ApproverID, "error", err)
		return
	}

	creator, err := h.repository.GetUserByID(machine.Schedule.CreatedBy)
	if err != nil {
		slog.Warn("기안자 조회 실패", "creatorID", machine.Schedule.CreatedBy, "error", err)
		return
	}

	dept, err := h.repository.GetDepartmentByID(machine.Schedule.DepartmentID)
	if err != nil {
		slog.Warn("부서 조회 실패", "departmentID", machine.Schedule.DepartmentID, "error", err)
		return
	}

	h.publishMail(domain.MailMessage{
		Type: "approval_requested",
		To:   approver.Email,
		Data: domain.ApprovalRequestedMailData{
			ApproverName: approver.FullName,
			CreatorName:  creator.FullName,
			Department:   dept.Name,
			YearMonth:    machine.Schedule.YearMonth,
		},
	})
}

// notifyCreator 는 반려 또는 승인 결과를 기안자에게 알린다.
func (h *Handler) notifyCreator(machine *approval.Machine, mailType string, rejectorName string, reason string) {
	creator, err := h.repository.GetUserByID(machine.Schedule.CreatedBy)
	if err != nil {
		slog.Warn("기안자 조회 실패", "creatorID", machine.Schedule.CreatedBy, "error", err)
		return
	}

	dept, err := h.repository.GetDepartmentByID(machine.Schedule.DepartmentID)
	if err != nil {
		slog.Warn("부서 조회 실패", "departmentID", machine.Schedule.DepartmentID, "error", err)
		return
	}

	switch mailType {
	case "schedule_rejected":
		h.publishMail(domain.MailMessage{
			Type: mailType,
			To:   creator.Email,
			Data: domain.ScheduleRejectedMailData{
				CreatorName:     creator.FullName,
				RejectorName:    rejectorName,
				Department:      dept.Name,
				YearMonth:       machine.Schedule.YearMonth,
				RejectionReason: reason,
			},
		})
	case "schedule_approved":
		h.publishMail(domain.MailMessage{
			Type: mailType,
			To:   creator.Email,
			Data: domain.ScheduleApprovedMailData{
				CreatorName: creator.FullName,
				Department:  dept.Name,
				YearMonth:   machine.Schedule.YearMonth,
			},
		})
	}
}

// requireSignature 는 결재 행위에 사용할 본인 서명을 가져온다.
func requireSignature(user *domain.User) (string, error) {
	if user.SignatureRef == nil || *user.SignatureRef == "" {
		return "", errors.New("서명을 먼저 등록해 주세요")
	}
	return *user.SignatureRef, nil
}

// SignStep 은 기안자 서명을 토글한다. 작성 단계에서만 가능하다.
func (h *Handler) SignStep(w http.ResponseWriter, r *http.Request) {
	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if myInfo.ID != ws.CreatedBy {
		h.errorResponse(w, r, "기안자만 서명할 수 있습니다")
		return
	}

	signatureRef, err := requireSignature(myInfo)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	machine, err := h.loadMachine(ws)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := machine.ToggleCreatorSign(myInfo.ID, signatureRef, time.Now()); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SaveApprovalState(machine.Schedule, machine.Steps); err != nil {
		h.saveApprovalError(w, r, err)
		return
	}

	h.successResponse(w, r, "기안자 서명 처리 성공", machine.Steps)
}

func (h *Handler) SubmitForApproval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Line []struct {
			Kind         string `json:"kind" validate:"required,oneof=DEPT_HEAD_PLACEHOLDER APPROVER"`
			ApproverID   *int64 `json:"approverId"`
			ApproverName string `json:"approverName"`
		} `json:"line" validate:"required,min=1,dive"`
		ConfirmDiscardDeptHead bool `json:"confirmDiscardDeptHead"`
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

	if myInfo.ID != ws.CreatedBy {
		h.errorResponse(w, r, "기안자만 상신할 수 있습니다")
		return
	}

	line := make([]approval.LineStep, 0, len(req.Line))
	for _, ls := range req.Line {
		step := approval.LineStep{
			Kind:         domain.StepKind(ls.Kind),
			ApproverID:   ls.ApproverID,
			ApproverName: ls.ApproverName,
		}

		// 부서장 자리표시자는 상신 시점의 부서장으로 확정한다
		if step.Kind == domain.StepKindDeptHead && step.ApproverID == nil {
			dept, err := h.repository.GetDepartmentByID(ws.DepartmentID)
			if err != nil {
				h.internalServerError(w, r, err)
				return
			}
			if dept.ManagerID != nil {
				manager, err := h.repository.GetUserByID(*dept.ManagerID)
				if err != nil {
					h.internalServerError(w, r, err)
					return
				}
				step.ApproverID = &manager.ID
				step.ApproverName = manager.FullName
			}
		}

		line = append(line, step)
	}

	if err := utils.ValidateApprovalLine(line); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	machine, err := h.loadMachine(ws)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := machine.Submit(line, req.ConfirmDiscardDeptHead, time.Now()); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SaveApprovalState(machine.Schedule, machine.Steps); err != nil {
		h.saveApprovalError(w, r, err)
		return
	}

	h.notifyCurrentApprover(machine)

	h.successResponse(w, r, "상신 성공", machine.Steps)
}

// ApproveStep 은 결재자가 자기 단계에 서명하거나 서명을 취소한다.
func (h *Handler) ApproveStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StepOrder int32 `json:"stepOrder" validate:"required,min=1"`
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

	signatureRef, err := requireSignature(myInfo)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	machine, err := h.loadMachine(ws)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := machine.SignStep(myInfo.ID, req.StepOrder, signatureRef, time.Now()); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SaveApprovalState(machine.Schedule, machine.Steps); err != nil {
		h.saveApprovalError(w, r, err)
		return
	}

	if machine.Schedule.Status == domain.ScheduleStatusApproved {
		h.notifyCreator(machine, "schedule_approved", "", "")
	} else {
		h.notifyCurrentApprover(machine)
	}

	h.successResponse(w, r, "결재 처리 성공", machine.Steps)
}

// FinalApprove 는 전결 처리이다. 이전 단계들은 개별 서명 없이 충족된다.
func (h *Handler) FinalApprove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StepOrder int32 `json:"stepOrder" validate:"required,min=1"`
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

	signatureRef, err := requireSignature(myInfo)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	machine, err := h.loadMachine(ws)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := machine.FinalApprove(myInfo.ID, req.StepOrder, signatureRef, time.Now()); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SaveApprovalState(machine.Schedule, machine.Steps); err != nil {
		h.saveApprovalError(w, r, err)
		return
	}

	h.notifyCreator(machine, "schedule_approved", "", "")

	h.successResponse(w, r, "전결 처리 성공", machine.Steps)
}

func (h *Handler) RejectSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StepOrder int32  `json:"stepOrder" validate:"required,min=1"`
		Reason    string `json:"reason" validate:"required,max=500"`
		Force     bool   `json:"force"`
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

	// 승인된 문서를 반려로 되돌리는 것은 인사관리자만 할 수 있다
	force := req.Force && myInfo.Role == domain.RoleHRAdmin

	machine, err := h.loadMachine(ws)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := machine.Reject(myInfo.ID, req.StepOrder, req.Reason, force, time.Now()); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SaveApprovalState(machine.Schedule, machine.Steps); err != nil {
		h.saveApprovalError(w, r, err)
		return
	}

	h.notifyCreator(machine, "schedule_rejected", myInfo.FullName, req.Reason)

	h.successResponse(w, r, "반려 처리 성공", machine.Steps)
}

func (h *Handler) ToggleFinalApproval(w http.ResponseWriter, r *http.Request) {
	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	machine, err := h.loadMachine(ws)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := machine.ToggleFinalLock(myInfo.ID, time.Now()); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SaveApprovalState(machine.Schedule, machine.Steps); err != nil {
		h.saveApprovalError(w, r, err)
		return
	}

	h.successResponse(w, r, "확정 처리 성공", machine.Schedule)
}

func (h *Handler) saveApprovalError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		h.errorResponse(w, r, "다른 곳에서 먼저 수정했습니다. 새로고침 후 다시 시도해 주세요")
	default:
		h.internalServerError(w, r, err)
	}
}
