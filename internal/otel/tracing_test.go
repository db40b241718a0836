package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerRatio(t *testing.T) {
	assert.Equal(t, 0.25, samplerRatio("0.25"))
	assert.Equal(t, 1.0, samplerRatio(""))
	assert.Equal(t, 1.0, samplerRatio("abc"))
	assert.Equal(t, 1.0, samplerRatio("1.5"))
	assert.Equal(t, 0.0, samplerRatio("0"))
}

func TestGetSampler(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "always_off")
	assert.Equal(t, "AlwaysOffSampler", getSampler().Description())

	t.Setenv("OTEL_TRACES_SAMPLER", "always_on")
	assert.Equal(t, "AlwaysOnSampler", getSampler().Description())

	t.Setenv("OTEL_TRACES_SAMPLER", "")
	assert.Contains(t, getSampler().Description(), "ParentBased")
}

func TestInit_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")

	shutdown, err := Init(context.Background())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
