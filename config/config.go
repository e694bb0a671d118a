// Package config loads the emission configuration record described in the
// ambient stack: an optional mdslc.yaml merged with MDSLC_-prefixed
// environment overrides, using koanf the way the wider example pack wires
// layered configuration.
package config

import (
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Emission holds the emission configuration record. Only CypherPrefix is
// read (cmd/mdslc passes it to cyphergen); SQLCheckConstraints,
// WarnOverlappingOverrides and Dialect are loaded but no package consults them.
type Emission struct {
	CypherPrefix             string `koanf:"cypher_prefix"`
	SQLCheckConstraints      bool   `koanf:"sql_check_constraints"`
	WarnOverlappingOverrides bool   `koanf:"warn_overlapping_overrides"`
	Dialect                  string `koanf:"dialect"`
}

// defaults mirrors spec.md's implied defaults: no label prefix, category
// CHECK constraints on, overlap warnings on, the generic ANSI dialect.
func defaults() Emission {
	return Emission{
		CypherPrefix:             "",
		SQLCheckConstraints:      true,
		WarnOverlappingOverrides: true,
		Dialect:                  "ansi",
	}
}

// Load reads path (if it exists) as YAML, then overlays MDSLC_* environment
// variables, e.g. MDSLC_CYPHER_PREFIX=mdsl_. A missing path is not an error:
// defaults plus environment overrides still apply.
func Load(path string) (Emission, error) {
	k := koanf.New(".")
	cfg := defaults()
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, errors.Annotatef(err, "config: loading %s", path)
			}
		} else if !os.IsNotExist(statErr) {
			return cfg, errors.Annotatef(statErr, "config: stat %s", path)
		}
	}
	if err := k.Load(env.Provider("MDSLC_", ".", envTransform), nil); err != nil {
		return cfg, errors.Annotate(err, "config: loading environment overrides")
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, errors.Annotate(err, "config: unmarshaling")
	}
	return cfg, nil
}

func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "MDSLC_"))
}
