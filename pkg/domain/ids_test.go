package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "brigade/pkg/domain-errors"
)

func TestParseCodeID(t *testing.T) {
	raw := uuid.New()
	id, err := ParseCodeID(raw.String())
	require.NoError(t, err)
	assert.Equal(t, raw.String(), id.String())
	assert.False(t, id.IsNil())
}

func TestParseCodeIDInvalid(t *testing.T) {
	_, err := ParseCodeID("not-a-uuid")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestNewCodeIDIsUnique(t *testing.T) {
	a := NewCodeID()
	b := NewCodeID()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsNil())
}
