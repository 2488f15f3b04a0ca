package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/yourusername/elo-advisor/internal/models"
)

// OddsInput is decimal odds as typed by a user. It accepts a JSON number or
// string, and a comma as decimal separator.
type OddsInput string

// UnmarshalJSON accepts both 1.85 and "1,85"
func (o *OddsInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = OddsInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("odds must be a number or string: %w", err)
	}
	*o = OddsInput(n.String())
	return nil
}

// Decimal parses the odds
func (o OddsInput) Decimal() (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(string(o)), ",", ".")
	if s == "" {
		return decimal.Zero, errors.New("odds are empty")
	}
	return decimal.NewFromString(s)
}

// MatchRequest is unvalidated match input. Ratings may be omitted and
// resolved from a ranking snapshot by name.
type MatchRequest struct {
	Player1 string    `json:"player1" validate:"required"`
	Player2 string    `json:"player2" validate:"required"`
	Odds1   OddsInput `json:"odds1" validate:"required,odds"`
	Odds2   OddsInput `json:"odds2" validate:"required,odds"`
	Rating1 *float64  `json:"rating1,omitempty" validate:"omitempty,gt=0"`
	Rating2 *float64  `json:"rating2,omitempty" validate:"omitempty,gt=0"`
}

// FieldError describes one invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every invalid field of a MatchRequest
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+" "+f.Message)
	}
	return "invalid match input: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// RatingResolver looks up a player's rating by name. found is false when the
// player is not ranked; err is reserved for lookup failures.
type RatingResolver func(name string) (rating float64, found bool, err error)

// InputValidator validates match requests at the boundary
type InputValidator struct {
	validate *validator.Validate
}

// NewInputValidator creates a validator with the odds and distinct-player rules
func NewInputValidator() *InputValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// Registration only fails for an empty tag name
	_ = v.RegisterValidation("odds", validateOdds)
	v.RegisterStructValidation(validateDistinctPlayers, MatchRequest{})

	return &InputValidator{validate: v}
}

// Parse validates req and returns the MatchInput for the analyzer. Missing
// ratings are resolved through resolve; with a nil resolver they are required.
func (iv *InputValidator) Parse(req MatchRequest, resolve RatingResolver) (models.MatchInput, error) {
	req.Player1 = strings.TrimSpace(req.Player1)
	req.Player2 = strings.TrimSpace(req.Player2)

	verr := &ValidationError{}
	if err := iv.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return models.MatchInput{}, fmt.Errorf("validation failed: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.add(fe.Field(), describe(fe))
		}
		return models.MatchInput{}, verr
	}

	rating1, err := iv.resolveRating("rating1", req.Player1, req.Rating1, resolve, verr)
	if err != nil {
		return models.MatchInput{}, err
	}
	rating2, err := iv.resolveRating("rating2", req.Player2, req.Rating2, resolve, verr)
	if err != nil {
		return models.MatchInput{}, err
	}
	if len(verr.Fields) > 0 {
		return models.MatchInput{}, verr
	}

	// Odds were validated above, so parsing cannot fail here.
	odds1, _ := req.Odds1.Decimal()
	odds2, _ := req.Odds2.Decimal()

	return models.MatchInput{
		Player1: req.Player1,
		Rating1: rating1,
		Odds1:   odds1.InexactFloat64(),
		Player2: req.Player2,
		Rating2: rating2,
		Odds2:   odds2.InexactFloat64(),
	}, nil
}

func (iv *InputValidator) resolveRating(field, name string, given *float64, resolve RatingResolver, verr *ValidationError) (float64, error) {
	if given != nil {
		return *given, nil
	}
	if resolve == nil {
		verr.add(field, "is required")
		return 0, nil
	}
	rating, found, err := resolve(name)
	if err != nil {
		return 0, err
	}
	if !found {
		verr.add(field, fmt.Sprintf("could not be resolved: %q is not in the ranking", name))
		return 0, nil
	}
	return rating, nil
}

func validateOdds(fl validator.FieldLevel) bool {
	d, err := OddsInput(fl.Field().String()).Decimal()
	if err != nil || !d.IsPositive() {
		return false
	}
	f := d.InexactFloat64()
	return !math.IsInf(f, 0) && f > 0
}

func validateDistinctPlayers(sl validator.StructLevel) {
	req := sl.Current().Interface().(MatchRequest)
	if req.Player1 != "" && strings.EqualFold(strings.TrimSpace(req.Player1), strings.TrimSpace(req.Player2)) {
		sl.ReportError(req.Player2, "player2", "Player2", "distinct", "")
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "odds":
		return fmt.Sprintf("must be a positive, finite decimal number, got %q", fe.Value())
	case "gt":
		return "must be greater than " + fe.Param()
	case "distinct":
		return "must differ from player1"
	default:
		return "failed validation: " + fe.Tag()
	}
}
