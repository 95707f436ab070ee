package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	require.NoError(t, err)

	assert.Len(t, id, runIDLength)
	for _, c := range id {
		assert.Contains(t, characters, string(c))
	}
}

func TestGenerateID_IdentificadoresDistintos(t *testing.T) {
	first, err := GenerateID()
	require.NoError(t, err)

	second, err := GenerateID()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
