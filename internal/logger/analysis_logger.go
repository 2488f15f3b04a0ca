// Package logger provides analysis logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for match analyses.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogAnalysis logs a completed analysis.
func (al *AnalysisLogger) LogAnalysis(player1, player2 string, prob1, ev1, ev2 float64, verdict string) {
	al.WithFields(logrus.Fields{
		"player1": player1,
		"player2": player2,
		"prob1":   prob1,
		"ev1":     ev1,
		"ev2":     ev2,
		"verdict": verdict,
	}).Info("Match analysis completed")
}

// LogValidationRejected logs input that was rejected before analysis.
func (al *AnalysisLogger) LogValidationRejected(err error) {
	al.WithField("event_type", "validation_rejected").WithError(err).Warn("Match input rejected")
}
