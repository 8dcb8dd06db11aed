package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "archdecomp", cfg.Name)
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 1.0, cfg.InterClusterWeights.Table+cfg.InterClusterWeights.Call+cfg.InterClusterWeights.Token+cfg.InterClusterWeights.Event, weightSumTolerance)
	assert.InDelta(t, 1.0, cfg.Viability.CohesionWeight+cfg.Viability.CouplingWeight+cfg.Viability.DataWeight, weightSumTolerance)
	assert.Equal(t, 0.65, cfg.Consolidation.EvidenceThreshold)
	assert.Equal(t, 2, cfg.Consolidation.MinStrongSignals)
}

func TestConfig_SaveLoadRoundtrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Consolidation.EvidenceThreshold = 0.7

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.7, loaded.Consolidation.EvidenceThreshold)
	assert.Equal(t, cfg.ExcludeTokens, loaded.ExcludeTokens)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Consolidation.EvidenceThreshold, loaded.Consolidation.EvidenceThreshold)
}

func TestValidate_RejectsMisweightedInterClusterSignals(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InterClusterWeights.Table = 0.9
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")
}

func TestValidate_RejectsOutOfRangeThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viability.HighViability = 1.5
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in [0,1]")
}

func TestValidate_RejectsInvertedViabilityTiers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viability.MediumViability = 0.9
	cfg.Viability.HighViability = 0.7
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not exceed")
}

func TestEnvOverrides_EvidenceThreshold(t *testing.T) {
	t.Setenv("ARCHDECOMP_EVIDENCE_THRESHOLD", "0.8")
	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.Equal(t, 0.8, cfg.Consolidation.EvidenceThreshold)
}
