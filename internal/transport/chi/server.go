// Package chi exposes the recommender over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/profile"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
	logpkg "github.com/kailas-cloud/careerdex/internal/logger"
	healthuc "github.com/kailas-cloud/careerdex/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/careerdex/internal/usecase/recommend"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest             = "bad_request"
	CodeValidationFailed       = "validation_failed"
	CodeServiceUnavailable     = "service_unavailable"
	CodeRateLimited            = "rate_limited"
	CodeEmbeddingProviderError = "embedding_provider_error"
	CodeInternalError          = "internal_error"
)

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(ctx context.Context, p profile.Profile) (recommenduc.Response, error)
}

// HealthChecker reports liveness and dependency checks.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// RecommendRequest is the POST /api/recommend body.
type RecommendRequest struct {
	Interests        *string `json:"interests"`
	Skills           *string `json:"skills"`
	Age              *int    `json:"age"`
	EducationLevelID *int    `json:"education_level_id"`
}

// CareerRecommendation is one ranked occupation in the response.
type CareerRecommendation struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	MatchScore           float64 `json:"match_score"`
	EducationRequirement string  `json:"education_requirement"`
	Description          string  `json:"description"`
}

// RecommendationResponse is the POST /api/recommend response.
type RecommendationResponse struct {
	UserSummary     string                 `json:"user_summary"`
	Recommendations []CareerRecommendation `json:"recommendations"`
}

// HealthResponse is the GET /health response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	recommender   Recommender
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(recommender Recommender, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		recommender: recommender,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		invalidProfileHandler,
		sentinelHandler(domain.ErrServiceUnavailable, http.StatusServiceUnavailable, CodeServiceUnavailable),
		sentinelHandler(domain.ErrNoSearchBackend, http.StatusServiceUnavailable, CodeServiceUnavailable),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError),
	}
	return s
}

// Recommend handles POST /api/recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := profileFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	if s.recommender == nil {
		s.handleDomainError(w, r, domain.ErrServiceUnavailable)
		return
	}

	resp, err := s.recommender.Recommend(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RecommendationResponse{
		UserSummary:     resp.UserSummary,
		Recommendations: recommendationsToResponse(resp.Recommendations),
	})
}

// HealthCheck handles GET /health. The status is always "ok"; dependency
// failures show up only in checks.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: string(healthuc.Healthy)}
	if s.health != nil {
		report := s.health.Check(r.Context())
		resp.Status = string(report.Status)
		resp.Checks = make(map[string]string, len(report.Checks))
		for k, v := range report.Checks {
			resp.Checks[k] = string(v)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func profileFromRequest(req RecommendRequest) (profile.Profile, error) {
	switch {
	case req.Interests == nil:
		return profile.Profile{}, errors.New("interests is required")
	case req.Skills == nil:
		return profile.Profile{}, errors.New("skills is required")
	case req.Age == nil:
		return profile.Profile{}, errors.New("age is required")
	case req.EducationLevelID == nil:
		return profile.Profile{}, errors.New("education_level_id is required")
	}
	p := profile.Profile{
		Interests:        *req.Interests,
		Skills:           *req.Skills,
		Age:              *req.Age,
		EducationLevelID: *req.EducationLevelID,
	}
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

func recommendationsToResponse(results []recommendation.Result) []CareerRecommendation {
	out := make([]CareerRecommendation, len(results))
	for i, r := range results {
		out[i] = CareerRecommendation{
			ID:                   r.ID,
			Title:                r.Title,
			MatchScore:           r.MatchScore,
			EducationRequirement: r.EducationRequirement,
			Description:          r.Description,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel
// error and reports only the sentinel text.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// invalidProfileHandler exposes the full message, which names the bad field.
func invalidProfileHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidProfile) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
	return true
}

// handleDomainError maps err to a status code. Unmatched errors are search
// failures and surface as a 500 carrying the wrapped message.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("search error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "Search error: "+err.Error())
}
