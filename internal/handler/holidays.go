package handler

import (
	"net/http"
	"sort"
	"strconv"
)

// GetHolidays 는 해당 연도의 공휴일을 "MM-DD" 목록으로 반환한다.
func (h *Handler) GetHolidays(w http.ResponseWriter, r *http.Request) {
	yearParam := r.URL.Query().Get("year")
	year, err := strconv.Atoi(yearParam)
	if err != nil || year < 2000 || year > 2100 {
		h.errorResponse(w, r, "연도가 올바르지 않습니다")
		return
	}

	holidays, err := h.holidays.Resolve(r.Context(), year)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	days := make([]string, 0, len(holidays))
	for day := range holidays {
		days = append(days, day)
	}
	sort.Strings(days)

	h.successResponse(w, r, "공휴일 조회 성공", days)
}
