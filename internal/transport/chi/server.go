// Package chi exposes the query pipeline over HTTP with a chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/query"
	"github.com/techstore/catalogqa/internal/logger"
	chatuc "github.com/techstore/catalogqa/internal/usecase/chat"
	healthuc "github.com/techstore/catalogqa/internal/usecase/health"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

type searcher interface {
	Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error)
}

type chatter interface {
	Chat(ctx context.Context, q query.Query) (chatuc.Result, error)
}

type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	search        searcher
	chat          chatter
	health        healthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search searcher, chat chatter, health healthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		chat:   chat,
		health: health,
		logger: logger,
	}
	// ErrRateLimited first: a provider 429 also wraps ErrEmbeddingProviderError.
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrNoEmbeddingBackend, http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrVectorStoreUnavailable,
			http.StatusServiceUnavailable, ErrorCodeVectorStoreUnavailable),
	}
	return s
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	q, err := query.NewSearch(req.Query, topK(req.TopK))
	if err == nil {
		err = rejectExplicitZero(req.TopK)
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{Success: true, Results: resultItems(results)})
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	q, err := query.NewChat(req.Query, topK(req.TopK))
	if err == nil {
		err = rejectExplicitZero(req.TopK)
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.chat.Chat(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Answer:      res.Answer,
		Intent:      string(res.Intent),
		OutOfDomain: res.OutOfDomain,
		Label:       res.Label,
		Context:     resultItems(res.Context),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (QueryRequest, bool) {
	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return QueryRequest{}, false
	}
	return req, true
}

func topK(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// rejectExplicitZero keeps "top_k": 0 from silently selecting the default.
func rejectExplicitZero(p *int) error {
	if p != nil && *p == 0 {
		return fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidQuery)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// validationHandler echoes the validation detail, which never carries internals.
func validationHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// The client sees only the sentinel text.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	if errors.Is(err, context.Canceled) {
		log.Info("request canceled", zap.Error(err))
		return
	}
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
