package blast

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RiskInput is the three free-text fields gathered from the user. The text
// is forwarded verbatim; validation never rewrites it.
type RiskInput struct {
	Context         string `json:"context" validate:"notblank"`
	ProposedFeature string `json:"proposedFeature" validate:"notblank"`
	IntendedOutcome string `json:"intendedOutcome" validate:"notblank"`
}

// IsValid reports whether all three fields are non-empty after trimming.
func IsValid(in RiskInput) bool {
	return strings.TrimSpace(in.Context) != "" &&
		strings.TrimSpace(in.ProposedFeature) != "" &&
		strings.TrimSpace(in.IntendedOutcome) != ""
}

// Validate returns an *InputError naming each blank field.
func (in RiskInput) Validate() error {
	err := blastValidate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &InputError{Fields: fields}
}
