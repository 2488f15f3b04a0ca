package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/yourusername/elo-advisor/internal/analysis"
	"github.com/yourusername/elo-advisor/internal/datasource"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error   string                `json:"error"`
	Details string                `json:"details"`
	Fields  []analysis.FieldError `json:"fields,omitempty"`
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message, details string) {
	respondJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// respondMethodNotAllowed rejects a request before any work is done
func respondMethodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	respondError(w, http.StatusMethodNotAllowed, "Method not allowed",
		fmt.Sprintf("%s is not supported on %s; use %s", r.Method, r.URL.Path, allowed))
}

// rankingFailure maps a ranking retrieval error to its HTTP status and body
func rankingFailure(err error) (int, ErrorResponse) {
	var dsErr datasource.DataSourceError
	hasDetails := errors.As(err, &dsErr)

	switch datasource.CodeOf(err) {
	case datasource.ErrCodeServiceUnavailable:
		details := "The ranking source could not be reached: " + err.Error()
		if status := datasource.StatusOf(err); status > 0 {
			details = fmt.Sprintf("The ranking source returned status %d (likely an anti-scraping block)", status)
		}
		return http.StatusServiceUnavailable, ErrorResponse{
			Error:   "Ranking service unavailable",
			Details: details,
		}
	case datasource.ErrCodeParseFailure:
		details := "The table selector found no data in the page. The site may have changed its layout."
		if hasDetails && dsErr.Message != "" {
			details = dsErr.Message
		}
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to process the ranking table",
			Details: details,
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal error while processing the request",
			Details: err.Error(),
		}
	}
}
