package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	h.successResponse(w, r, "내 정보 조회 성공", myInfo)
}

func (h *Handler) UpdateMySignature(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SignatureRef string `json:"signatureRef" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	myInfo.SignatureRef = &req.SignatureRef

	if err := h.repository.UpdateUser(myInfo); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "다시 시도해 주세요")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 서명이 바뀌면 캐시된 프로필과 명부를 버린다
	if err := h.sessionStore.InvalidateProfile(r.Context(), myInfo.ID); err != nil {
		slog.Warn("프로필 캐시 무효화 실패", "userID", myInfo.ID, "error", err)
	}
	if err := h.sessionStore.InvalidateDirectory(r.Context()); err != nil {
		slog.Warn("직원 명부 캐시 무효화 실패", "error", err)
	}

	h.successResponse(w, r, "서명 등록 성공", myInfo)
}

func (h *Handler) GetEmployeeDirectory(w http.ResponseWriter, r *http.Request) {
	users, ok, err := h.sessionStore.GetDirectory(r.Context())
	if err != nil {
		slog.Warn("직원 명부 캐시 조회 실패", "error", err)
	}
	if ok {
		h.successResponse(w, r, "직원 명부 조회 성공", users)
		return
	}

	users, err = h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.sessionStore.SetDirectory(r.Context(), users); err != nil {
		slog.Warn("직원 명부 캐시 저장 실패", "error", err)
	}

	h.successResponse(w, r, "직원 명부 조회 성공", users)
}

func (h *Handler) GetAllDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.repository.GetAllDepartments()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "부서 목록 조회 성공", departments)
}
