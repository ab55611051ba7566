package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yaklabco/ipmt/pkg/config"
)

// envVarPrefix is the prefix for all ipmt environment variables.
const envVarPrefix = "IPMT_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping binds an environment variable to a config field.
type envMapping struct {
	typ         envFieldType
	description string
	set         func(cfg *config.Config, v any)
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"COMPRESSION": {
		typ:         envTypeString,
		description: "Index compression: huffman or lz78",
		set:         func(cfg *config.Config, v any) { cfg.Compression = v.(string) },
	},
	"INDEX_TYPE": {
		typ:         envTypeString,
		description: "Index structure: sa",
		set:         func(cfg *config.Config, v any) { cfg.IndexType = v.(string) },
	},
	"JOBS": {
		typ:         envTypeInt,
		description: "Number of parallel workers (0 = auto)",
		set:         func(cfg *config.Config, v any) { cfg.Jobs = v.(int) },
	},
	"CACHE_SIZE": {
		typ:         envTypeInt,
		description: "Decoded indexes kept in memory while searching",
		set:         func(cfg *config.Config, v any) { cfg.CacheSize = v.(int) },
	},
	"COLOR": {
		typ:         envTypeString,
		description: "Colored output: auto, always, or never",
		set:         func(cfg *config.Config, v any) { cfg.Color = config.ColorMode(v.(string)) },
	},
	"FORMAT": {
		typ:         envTypeString,
		description: "Search output format: text or json",
		set:         func(cfg *config.Config, v any) { cfg.Format = config.OutputFormat(v.(string)) },
	},
	"VERIFY_SOURCE": {
		typ:         envTypeBool,
		description: "Re-hash sources after indexing: true or false",
		set:         func(cfg *config.Config, v any) { cfg.VerifySource = v.(bool) },
	},
	"IGNORE": {
		typ:         envTypeSlice,
		description: "Comma-separated list of ignore patterns",
		set:         func(cfg *config.Config, v any) { cfg.Ignore = v.([]string) },
	},
}

// LoadFromEnv applies IPMT_* process environment variables to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

// LoadDotEnv applies the IPMT_* entries of a .env file to cfg. Other keys
// are ignored and the process environment is not modified. It reports
// whether the file contained any IPMT_* entry.
func LoadDotEnv(cfg *config.Config, path string) (bool, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	found := false
	for key := range values {
		if strings.HasPrefix(key, envVarPrefix) {
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	err = applyEnv(cfg, func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return true, nil
}

// applyEnv applies every mapped variable that lookup reports as set and non-empty.
func applyEnv(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for suffix, mapping := range envMappings {
		name := envVarPrefix + suffix
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}

		parsed, err := parseEnvValue(mapping.typ, value, name)
		if err != nil {
			return err
		}
		mapping.set(cfg, parsed)
	}

	return nil
}

func parseEnvValue(typ envFieldType, value, name string) (any, error) {
	switch typ {
	case envTypeString:
		return value, nil
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", name, value)
		}
		return b, nil
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid integer for %s: %q", name, value)
		}
		return i, nil
	case envTypeSlice:
		return parseSliceValue(value), nil
	default:
		return nil, fmt.Errorf("unknown field type for %s", name)
	}
}

// parseSliceValue splits a comma-separated string, trimming each element.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns the supported environment variables and their
// descriptions, sorted by name.
func ListEnvVars() [][2]string {
	vars := make([][2]string, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, [2]string{envVarPrefix + suffix, mapping.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i][0] < vars[j][0] })
	return vars
}
