package service

import (
	"testing"

	"ean-extractor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionFor(t *testing.T) {
	fixed, err := InstructionFor(models.CodePolicyFixed13)
	require.NoError(t, err)
	native, err := InstructionFor(models.CodePolicyNative)
	require.NoError(t, err)

	for _, in := range []models.Instruction{fixed, native} {
		assert.Contains(t, in.Text, "separatore |")
		assert.Contains(t, in.Text, "8058664165889|4.00")
		assert.Contains(t, in.Text, "PUNTO per i decimali")
		assert.Contains(t, in.Text, "4.00")
		assert.Contains(t, in.Text, "RESTITUISCI SOLO LA LISTA")
	}

	assert.Contains(t, fixed.Text, "ESATTAMENTE 13 cifre")
	assert.NotContains(t, fixed.Text, "8, 9 oppure 13")
	assert.Contains(t, native.Text, "8, 9 oppure 13")
	assert.Contains(t, native.Text, "14 o 15 cifre")
	assert.NotEqual(t, fixed.Version, native.Version)
	assert.Equal(t, models.CodePolicyNative, native.Policy)
}

func TestInstructionFor_UnknownPolicy(t *testing.T) {
	_, err := InstructionFor(models.CodePolicy("ean8"))
	assert.Error(t, err)
}
