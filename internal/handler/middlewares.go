package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("요청 처리 완료", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // slog 로 찍으면 읽기 힘들다
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Authorization 헤더에서 토큰을 가져온다
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.errorResponse(w, r, "로그인이 필요합니다")
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			h.errorResponse(w, r, "유효하지 않은 인증 헤더입니다")
			return
		}

		// 토큰 검증
		claims := &AuthClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil {
			h.errorResponse(w, r, "유효하지 않은 토큰입니다")
			return
		}

		// claims 의 role 과 sub 를 context 에 담는다
		ctx := r.Context()
		ctx = context.WithValue(ctx, RoleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, SubCtxKey, claims.Subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subString := r.Context().Value(SubCtxKey).(string)

		sub, err := strconv.ParseInt(subString, 10, 64)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		myInfo, err := h.loadProfile(r.Context(), sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "내 정보를 찾을 수 없습니다")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, myInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loadProfile 은 프로필 캐시를 먼저 확인하고, 없거나 오래된 경우 DB 에서 다시 읽는다.
// 캐시 오류는 치명적이지 않으므로 로그만 남긴다.
func (h *Handler) loadProfile(ctx context.Context, userID int64) (*domain.User, error) {
	cached, ok, err := h.sessionStore.GetProfile(ctx, userID)
	if err != nil {
		slog.Warn("프로필 캐시 조회 실패", "userID", userID, "error", err)
	}
	if ok {
		return cached, nil
	}

	user, err := h.repository.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := h.sessionStore.SetProfile(ctx, user); err != nil {
		slog.Warn("프로필 캐시 저장 실패", "userID", userID, "error", err)
	}
	return user, nil
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleCtx := r.Context().Value(RoleCtxKey).(string)
			role := domain.Role(roleCtx)
			if !slices.Contains(roles, role) {
				h.errorResponse(w, r, "권한이 없습니다")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) workSchedule(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idParam := chi.URLParam(r, "id")
		scheduleID, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "근무표 ID가 올바르지 않습니다")
			return
		}

		schedule, err := h.repository.GetWorkScheduleByID(scheduleID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "근무표가 존재하지 않습니다")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), WorkScheduleCtx, schedule)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
