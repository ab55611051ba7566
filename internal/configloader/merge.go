package configloader

import (
	"slices"

	"github.com/yaklabco/ipmt/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: only true overrides, so a layer cannot unset a flag
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Compression != "" {
		result.Compression = override.Compression
	}
	if override.IndexType != "" {
		result.IndexType = override.IndexType
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.CacheSize != 0 {
		result.CacheSize = override.CacheSize
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Format != "" {
		result.Format = override.Format
	}

	if override.VerifySource {
		result.VerifySource = true
	}
	if override.Count {
		result.Count = true
	}
	if override.PatternFile {
		result.PatternFile = true
	}

	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
