package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast/blasttest"
)

func TestDescriptorCarriesDescriptions(t *testing.T) {
	s := string(JSON())

	assert.Contains(t, s, "Score from 1 (Low) to 5 (Severe)")
	assert.Contains(t, s, "What makes this risky")
	assert.Contains(t, s, "3-5 realistic ways this could fail quietly")
	assert.Contains(t, s, "What must exist before this can go to production")
	assert.Contains(t, s, `"Critical"`)
	assert.True(t, json.Valid(JSON()))
}

func TestDecodeFixture(t *testing.T) {
	a, err := Decode([]byte(blasttest.JSON()))
	require.NoError(t, err)
	assert.Equal(t, blasttest.Analysis(), a)
}

func TestValidateRejectsMissingRiskFactor(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(blasttest.JSON()), &doc))
	scores := doc["scores"].(map[string]any)
	delete(scores["trustImpact"].(map[string]any), "riskFactor")
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	err = Validate(payload)
	require.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "riskFactor")
}

func TestValidateRejectsWrongTypes(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(blasttest.JSON()), &doc))
	doc["totalScore"] = "eighteen"
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.ErrorIs(t, Validate(payload), ErrMismatch)
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	payload := blasttest.Mutate(func(a *blast.BlastAnalysis) { a.OverallRiskLevel = "Severe" })
	assert.ErrorIs(t, Validate([]byte(payload)), ErrMismatch)
}

func TestValidateRejectsInvalidJSON(t *testing.T) {
	err := Validate([]byte(`{"scores": `))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)

	_, err = Decode([]byte("Sorry, I cannot help with that."))
	assert.Error(t, err)
}
