package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 아이디와 비밀번호 검증
	user, err := h.repository.GetUserByUsername(req.Username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "아이디가 존재하지 않거나 비밀번호가 올바르지 않습니다")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if !user.IsActive {
		h.errorResponse(w, r, "퇴직 처리된 계정입니다")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.errorResponse(w, r, "아이디가 존재하지 않거나 비밀번호가 올바르지 않습니다")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// JWT 발급
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "로그인 성공", map[string]any{
		"token":     ss,
		"expiresAt": expiration,
		"user":      user,
	})
}

// Logout 은 서버에 세션을 두지 않으므로 클라이언트 측 토큰 폐기만 안내한다.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "로그아웃 성공", nil)
}
