package blast

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidInput is wrapped by every RiskInput validation failure.
	ErrInvalidInput = errors.New("invalid risk input")

	// ErrInconsistent is wrapped by every BlastAnalysis consistency failure.
	ErrInconsistent = errors.New("inconsistent blast analysis")
)

// blastValidate is shared by the input and analysis checks.
var blastValidate *validator.Validate

func init() {
	blastValidate = validator.New(validator.WithRequiredStructEnabled())

	// report json names so callers can point at request fields
	blastValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = blastValidate.RegisterValidation("notblank", validateNotBlank)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// InputError lists the RiskInput fields that failed validation.
type InputError struct {
	Fields []string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: blank fields: %s", ErrInvalidInput, strings.Join(e.Fields, ", "))
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// ConsistencyError lists every rule a BlastAnalysis broke.
type ConsistencyError struct {
	Violations []string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInconsistent, strings.Join(e.Violations, "; "))
}

func (e *ConsistencyError) Unwrap() error { return ErrInconsistent }

// Validate checks the struct rules, then that totalScore equals the sum of
// the dimension scores and that overallRiskLevel matches the threshold
// table. Out-of-range scores are violations; nothing is clamped.
func (a *BlastAnalysis) Validate() error {
	if a == nil {
		return &ConsistencyError{Violations: []string{"analysis is nil"}}
	}

	var violations []string
	if err := blastValidate.Struct(a); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			violations = append(violations, describe(fe))
		}
	}

	if sum := a.Scores.Sum(); a.TotalScore != sum {
		violations = append(violations, fmt.Sprintf("totalScore %d does not equal sum of dimension scores %d", a.TotalScore, sum))
	}

	if want, err := LevelForTotal(a.TotalScore); err == nil && a.OverallRiskLevel != want {
		violations = append(violations, fmt.Sprintf("overallRiskLevel %q does not match %q for totalScore %d", a.OverallRiskLevel, want, a.TotalScore))
	}

	if len(violations) > 0 {
		return &ConsistencyError{Violations: violations}
	}
	return nil
}

// Advisories returns soft findings that do not invalidate the analysis.
func (a *BlastAnalysis) Advisories() []string {
	var out []string
	if n := len(a.FailureModes); n < 3 || n > 5 {
		out = append(out, fmt.Sprintf("failureModes has %d items, expected 3-5", n))
	}
	if len(a.LaunchReadinessChecklist) == 0 {
		out = append(out, "launchReadinessChecklist is empty")
	}
	return out
}

// describe renders one validator failure using the json path of the field.
func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	switch fe.Tag() {
	case "min", "max":
		return fmt.Sprintf("%s: value %v violates %s=%s", path, fe.Value(), fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of %s", path, fe.Value(), fe.Param())
	case "notblank":
		return fmt.Sprintf("%s: must not be blank", path)
	case "required":
		return fmt.Sprintf("%s: is required", path)
	default:
		return fmt.Sprintf("%s: failed %s", path, fe.Tag())
	}
}
