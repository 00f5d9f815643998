package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringOrDash(t *testing.T) {
	assert.Equal(t, "-", stringOrDash(" \t"))
	assert.Equal(t, "openai", stringOrDash("openai"))
	assert.Equal(t, "", dashToEmpty(stringOrDash("")))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultLimit, clampLimit(0))
	assert.Equal(t, 5, clampLimit(5))
	assert.Equal(t, maxLimit, clampLimit(10_000))
}
