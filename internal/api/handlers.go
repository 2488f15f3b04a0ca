package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/elo-advisor/internal/analysis"
	"github.com/yourusername/elo-advisor/internal/models"
	"github.com/yourusername/elo-advisor/internal/service"
)

const maxRequestBodyBytes = 1 << 20

// RankingResponse is the body of a successful ranking request
type RankingResponse struct {
	TotalEntities int                   `json:"totalEntities"`
	Ranking       []models.RankedEntity `json:"ranking"`
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	ranking  *service.RankingService
	analysis *service.AnalysisService
	logger   logrus.FieldLogger
}

// NewHandler creates a new handler
func NewHandler(ranking *service.RankingService, analysis *service.AnalysisService, logger logrus.FieldLogger) *Handler {
	return &Handler{
		ranking:  ranking,
		analysis: analysis,
		logger:   logger,
	}
}

// Ranking serves the current ranking snapshot
func (h *Handler) Ranking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w, r, http.MethodGet)
		return
	}

	snapshot, _, err := h.ranking.Snapshot(r.Context())
	if err != nil {
		status, body := rankingFailure(err)
		h.logger.WithError(err).WithField("status", status).Warn("Ranking request failed")
		respondJSON(w, status, body)
		return
	}

	w.Header().Set("Cache-Control", cacheControl(h.ranking.TTL()))
	respondJSON(w, http.StatusOK, RankingResponse{
		TotalEntities: snapshot.Len(),
		Ranking:       snapshot.Entities,
	})
}

// Analysis runs a match analysis on the posted match input
func (h *Handler) Analysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req analysis.MatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("request body must be a JSON match object: %v", err))
		return
	}

	result, err := h.analysis.Analyze(r.Context(), req)
	if err != nil {
		var verr *analysis.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid match input",
				Details: verr.Error(),
				Fields:  verr.Fields,
			})
			return
		}

		status, body := rankingFailure(err)
		h.logger.WithError(err).WithField("status", status).Warn("Analysis request failed")
		respondJSON(w, status, body)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// cacheControl lets intermediaries cache the ranking for the cache lifetime
func cacheControl(ttl time.Duration) string {
	return fmt.Sprintf("s-maxage=%d, stale-while-revalidate", int(ttl.Seconds()))
}
