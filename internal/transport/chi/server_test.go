package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/profile"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
	"github.com/kailas-cloud/careerdex/internal/metrics"
	healthuc "github.com/kailas-cloud/careerdex/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/careerdex/internal/usecase/recommend"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockRecommender struct {
	resp recommenduc.Response
	err  error
	got  profile.Profile
}

func (m *mockRecommender) Recommend(_ context.Context, p profile.Profile) (recommenduc.Response, error) {
	m.got = p
	return m.resp, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	return m.report
}

func newTestRouter(rec Recommender, health HealthChecker) http.Handler {
	return NewRouter(NewServer(rec, health, zap.NewNop()), "careerdex-test", zap.NewNop())
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

const nurseBody = `{"interests":"caring for patients","skills":"empathy","age":25,"education_level_id":3}`

// --- Tests ---

func TestRecommend_OK(t *testing.T) {
	rec := &mockRecommender{resp: recommenduc.Response{
		UserSummary: "Become a nurse.",
		Recommendations: []recommendation.Result{
			{
				ID:                   "29-1141.00",
				Title:                "Registered Nurses",
				MatchScore:           87.5,
				EducationRequirement: "Medium Preparation",
				Description:          "Assess patient health problems.",
				JobZone:              3,
			},
		},
	}}
	h := newTestRouter(rec, nil)

	rr := doRequest(h, http.MethodPost, "/api/recommend", nurseBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp RecommendationResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserSummary != "Become a nurse." {
		t.Errorf("unexpected summary %q", resp.UserSummary)
	}
	if len(resp.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(resp.Recommendations))
	}
	got := resp.Recommendations[0]
	if got.ID != "29-1141.00" || got.Title != "Registered Nurses" || got.MatchScore != 87.5 {
		t.Errorf("unexpected recommendation %+v", got)
	}
	if got.EducationRequirement != "Medium Preparation" {
		t.Errorf("unexpected education requirement %q", got.EducationRequirement)
	}

	if rec.got.Interests != "caring for patients" || rec.got.EducationLevelID != 3 || rec.got.Age != 25 {
		t.Errorf("profile not passed through: %+v", rec.got)
	}
}

func TestRecommend_EmptyRecommendationsIsArray(t *testing.T) {
	h := newTestRouter(&mockRecommender{resp: recommenduc.Response{UserSummary: "x"}}, nil)

	rr := doRequest(h, http.MethodPost, "/api/recommend", nurseBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"recommendations":[]`) {
		t.Errorf("expected empty array, got %s", rr.Body.String())
	}
}

func TestRecommend_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{"interests":`, CodeBadRequest},
		{"missing field", `{"interests":"x","skills":"y","age":20}`, CodeValidationFailed},
		{"zone too low", `{"interests":"x","skills":"y","age":20,"education_level_id":0}`, CodeValidationFailed},
		{"zone too high", `{"interests":"x","skills":"y","age":20,"education_level_id":6}`, CodeValidationFailed},
		{"negative age", `{"interests":"x","skills":"y","age":-1,"education_level_id":2}`, CodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &mockRecommender{}
			rr := doRequest(newTestRouter(rec, nil), http.MethodPost, "/api/recommend", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			if got := decodeError(t, rr).Code; got != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, got)
			}
		})
	}
}

func TestRecommend_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"service unavailable", domain.ErrServiceUnavailable, http.StatusServiceUnavailable, CodeServiceUnavailable},
		{"no backend", fmt.Errorf("search: %w", domain.ErrNoSearchBackend), http.StatusServiceUnavailable, CodeServiceUnavailable},
		{"rate limited", fmt.Errorf("embed: %w", domain.ErrRateLimited), http.StatusTooManyRequests, CodeRateLimited},
		{"provider", fmt.Errorf("embed: %w", domain.ErrEmbeddingProviderError), http.StatusBadGateway, CodeEmbeddingProviderError},
		{"invalid profile", fmt.Errorf("%w: bad", domain.ErrInvalidProfile), http.StatusBadRequest, CodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(newTestRouter(&mockRecommender{err: tt.err}, nil), http.MethodPost, "/api/recommend", nurseBody)
			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
			resp := decodeError(t, rr)
			if resp.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, resp.Code)
			}
		})
	}
}

func TestRecommend_SearchErrorMessage(t *testing.T) {
	err := errors.New("search: qdrant search: collection careers not found")
	rr := doRequest(newTestRouter(&mockRecommender{err: err}, nil), http.MethodPost, "/api/recommend", nurseBody)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	resp := decodeError(t, rr)
	if resp.Code != CodeInternalError {
		t.Errorf("expected code %q, got %q", CodeInternalError, resp.Code)
	}
	want := "Search error: search: qdrant search: collection careers not found"
	if resp.Message != want {
		t.Errorf("expected message %q, got %q", want, resp.Message)
	}
}

func TestRecommend_ErrorLogCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	srv := NewServer(&mockRecommender{err: errors.New("qdrant down")}, nil, zap.NewNop())
	h := NewRouter(srv, "careerdex-test", logger)

	rr := doRequest(h, http.MethodPost, "/api/recommend", nurseBody)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	entries := logs.FilterMessage("search error").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 search error line, got %d", len(entries))
	}
	id, _ := entries[0].ContextMap()["request_id"].(string)
	if id == "" {
		t.Fatal("expected request_id on the error line")
	}
	if id != rr.Header().Get("X-Request-ID") {
		t.Errorf("request_id %q does not match header %q", id, rr.Header().Get("X-Request-ID"))
	}
}

func TestRecommend_NilRecommender(t *testing.T) {
	rr := doRequest(newTestRouter(nil, nil), http.MethodPost, "/api/recommend", nurseBody)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestRecommend_UnavailableServicesEndToEnd(t *testing.T) {
	svc := recommenduc.New(nil, nil, 5)
	rr := doRequest(newTestRouter(svc, nil), http.MethodPost, "/api/recommend", nurseBody)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if got := decodeError(t, rr).Code; got != CodeServiceUnavailable {
		t.Errorf("expected %q, got %q", CodeServiceUnavailable, got)
	}
}

func TestHealth_AlwaysOK(t *testing.T) {
	health := &mockHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{
			"search":    healthuc.CheckError,
			"embedding": healthuc.CheckUnavailable,
		},
	}}
	rr := doRequest(newTestRouter(nil, health), http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if resp.Checks["search"] != "error" || resp.Checks["embedding"] != "unavailable" {
		t.Errorf("unexpected checks %v", resp.Checks)
	}
}

func TestHealth_NoChecker(t *testing.T) {
	rr := doRequest(newTestRouter(nil, nil), http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"status":"ok"}` {
		t.Errorf("unexpected body %s", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(&mockRecommender{}, nil)
	_ = doRequest(h, http.MethodPost, "/api/recommend", nurseBody)

	rr := doRequest(h, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "careerdex_http_requests_total") {
		t.Error("expected http request counter in exposition")
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	h := newTestRouter(&mockRecommender{}, nil)

	if rr := doRequest(h, http.MethodGet, "/nope", ""); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	if rr := doRequest(h, http.MethodGet, "/api/recommend", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}
