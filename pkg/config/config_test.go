package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ipmt/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, "huffman", cfg.Compression)
	assert.Equal(t, config.IndexTypeSuffixArray, cfg.IndexType)
	assert.Equal(t, config.DefaultCacheSize, cfg.CacheSize)
	assert.Equal(t, config.ColorAuto, cfg.Color)
	assert.Equal(t, config.FormatText, cfg.Format)
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Compression = "lz78"
	cfg.Jobs = 4
	cfg.Ignore = []string{"vendor/**"}
	cfg.Count = true

	data, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "compression: lz78")
	assert.NotContains(t, string(data), "count", "CLI-only fields are not persisted")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "lz78", parsed.Compression)
	assert.Equal(t, 4, parsed.Jobs)
	assert.Equal(t, []string{"vendor/**"}, parsed.Ignore)
	assert.False(t, parsed.Count)
}

func TestFromYAMLInvalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("jobs: [not an int"))
	require.Error(t, err)
}

func TestClone(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	assert.Nil(t, nilCfg.Clone())

	orig := config.NewConfig()
	orig.Ignore = []string{"a", "b"}
	orig.PatternFile = true

	clone := orig.Clone()
	require.NotSame(t, orig, clone)
	assert.Equal(t, orig, clone)

	clone.Ignore[0] = "changed"
	assert.Equal(t, "a", orig.Ignore[0])
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML(config.GenerateTemplate())
	require.NoError(t, err)
	assert.Equal(t, "huffman", cfg.Compression)
	assert.Equal(t, config.IndexTypeSuffixArray, cfg.IndexType)
	assert.Empty(t, cfg.Ignore)
}

func TestEnumValidity(t *testing.T) {
	t.Parallel()

	assert.True(t, config.FormatJSON.IsValid())
	assert.False(t, config.OutputFormat("sarif").IsValid())
	assert.True(t, config.ColorNever.IsValid())
	assert.False(t, config.ColorMode("sometimes").IsValid())
}
