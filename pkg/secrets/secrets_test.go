package secrets

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "brigade/pkg/domain-errors"
)

func TestGenerateEntropy(t *testing.T) {
	code, err := Generate()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(code)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := Generate()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "generated duplicate code")
		seen[code] = struct{}{}
	}
}

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("staff-token")
	require.NoError(t, err)
	require.NotEqual(t, "staff-token", hash)

	assert.NoError(t, Verify("staff-token", hash))

	err = Verify("wrong-token", hash)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestHashEmptySecret(t *testing.T) {
	_, err := Hash("")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
