// Package holiday 는 공공데이터포털 특일 정보 API 에서 연도별 공휴일을
// 받아와 "MM-DD" 키 집합으로 변환한다. 집계기와 그리드 분류가 이 집합을
// 사용한다.
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hanul-soft/hr-portal/backend/internal/config"
	"github.com/hanul-soft/hr-portal/backend/internal/schedule"
)

// YearCache 는 연도별 공휴일 집합 캐시이다. 구현은 redis 를 쓰지만
// 테스트에서는 메모리 구현으로 바꿔 끼운다.
type YearCache interface {
	Get(ctx context.Context, year int) (schedule.HolidaySet, bool, error)
	Set(ctx context.Context, year int, set schedule.HolidaySet) error
}

type Resolver struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	cache      YearCache
}

func NewResolver(cfg *config.Config, client *http.Client, cache YearCache) *Resolver {
	return &Resolver{
		baseURL:    cfg.Holiday.APIBaseURL,
		serviceKey: cfg.Holiday.APIServiceKey,
		client:     client,
		cache:      cache,
	}
}

// 정부 API 응답에서 필요한 경로만 꺼낸다: response.body.items.item[].locdate
type apiResponse struct {
	Response struct {
		Body struct {
			Items struct {
				Item json.RawMessage `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type apiItem struct {
	Locdate  int64  `json:"locdate"` // YYYYMMDD
	DateName string `json:"dateName"`
}

// Resolve 는 연도의 공휴일 집합을 반환한다. 캐시에 있으면 API 를 호출하지
// 않는다. 캐시 오류는 치명적이지 않으므로 무시하고 API 로 넘어간다.
func (r *Resolver) Resolve(ctx context.Context, year int) (schedule.HolidaySet, error) {
	if r.cache != nil {
		if set, ok, err := r.cache.Get(ctx, year); err == nil && ok {
			return set, nil
		}
	}

	set, err := r.fetch(ctx, year)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, year, set)
	}
	return set, nil
}

func (r *Resolver) fetch(ctx context.Context, year int) (schedule.HolidaySet, error) {
	query := url.Values{}
	query.Set("solYear", fmt.Sprintf("%d", year))
	query.Set("numOfRows", "100")
	query.Set("_type", "json")
	query.Set("ServiceKey", r.serviceKey)

	reqURL := fmt.Sprintf("%s/getRestDeInfo?%s", r.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("공휴일 API 호출 실패: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("공휴일 API 가 %d 를 반환했습니다", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("공휴일 API 응답 해석 실패: %w", err)
	}

	items, err := parseItems(parsed.Response.Body.Items.Item)
	if err != nil {
		return nil, err
	}

	return extractMonthDays(items), nil
}

// parseItems 는 item 필드를 해석한다. 공공 API 는 결과가 하나뿐이면 배열
// 대신 객체 하나를 내려주므로 두 형태를 모두 받아 준다.
func parseItems(raw json.RawMessage) ([]apiItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var items []apiItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var single apiItem
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("공휴일 항목 해석 실패: %w", err)
	}
	return []apiItem{single}, nil
}

// extractMonthDays 는 locdate(YYYYMMDD)를 "MM-DD" 키로 변환한다.
func extractMonthDays(items []apiItem) schedule.HolidaySet {
	set := schedule.HolidaySet{}
	for _, item := range items {
		if item.Locdate <= 0 {
			continue
		}
		month := (item.Locdate / 100) % 100
		day := item.Locdate % 100
		set[fmt.Sprintf("%02d-%02d", month, day)] = true
	}
	return set
}
