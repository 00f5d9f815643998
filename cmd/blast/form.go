package main

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
)

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

// runForm asks for the three fields, prefilled with what was passed as
// flags. Text is returned verbatim.
func runForm(in blast.RiskInput) (blast.RiskInput, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Context").
				Placeholder("e.g. Regional bank, retail lending").
				Value(&in.Context).
				Validate(notBlank),
			huh.NewText().
				Title("Proposed Feature").
				Placeholder("e.g. Automated loan approval using document AI").
				Value(&in.ProposedFeature).
				Validate(notBlank),
			huh.NewText().
				Title("Intended Outcome").
				Placeholder("e.g. Reduce review time").
				Value(&in.IntendedOutcome).
				Validate(notBlank),
		),
	).WithOutput(os.Stderr)

	if err := form.Run(); err != nil {
		return in, err
	}
	return in, nil
}
