package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/elo-advisor/internal/analysis"
	"github.com/yourusername/elo-advisor/internal/logger"
	"github.com/yourusername/elo-advisor/internal/metrics"
	"github.com/yourusername/elo-advisor/internal/models"
)

// AnalysisService validates match requests, fills in missing ratings from
// the ranking and runs the analyzer.
type AnalysisService struct {
	ranking   *RankingService
	validator *analysis.InputValidator
	analyzer  *analysis.Analyzer
	logger    *logger.AnalysisLogger
}

// NewAnalysisService creates an analysis service. ranking may be nil, in which
// case both ratings must be supplied with every request.
func NewAnalysisService(ranking *RankingService, analyzer *analysis.Analyzer, log *logrus.Logger) *AnalysisService {
	if analyzer == nil {
		analyzer = analysis.NewAnalyzer(analysis.DefaultValueThreshold)
	}
	if log == nil {
		log = logger.Discard()
	}

	return &AnalysisService{
		ranking:   ranking,
		validator: analysis.NewInputValidator(),
		analyzer:  analyzer,
		logger:    logger.NewAnalysisLogger(log),
	}
}

// Analyze validates req and returns the analysis. Invalid input yields an
// *analysis.ValidationError; ranking failures are returned as-is.
func (s *AnalysisService) Analyze(ctx context.Context, req analysis.MatchRequest) (models.AnalysisResult, error) {
	var resolve analysis.RatingResolver
	if s.ranking != nil {
		resolve = s.ranking.ResolveRating(ctx)
	}

	input, err := s.validator.Parse(req, resolve)
	if err != nil {
		var verr *analysis.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordValidationRejection()
			s.logger.LogValidationRejected(err)
		}
		return models.AnalysisResult{}, err
	}

	result := s.analyzer.Analyze(input)
	metrics.RecordAnalysis(string(result.Verdict))
	s.logger.LogAnalysis(result.Participant1, result.Participant2, result.Prob1, result.EV1, result.EV2, string(result.Verdict))

	return result, nil
}
