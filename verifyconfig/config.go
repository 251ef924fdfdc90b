/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

// Package verifyconfig loads the VerifierParameters config surface of
// spec.md §6 from a YAML file via viper, following the Load/setDefaults
// shape of the teacher pack's own config loader (spec-recon's
// internal/config).
package verifyconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the on-disk shape of a VerifierParameters, before it is
// turned into resolvers and filters by the caller (target.VerifierParameters
// holds live Resolver/Filter values this package has no business
// constructing).
type Config struct {
	ExternalClassPrefixes  []string `mapstructure:"external_class_prefixes"`
	ExternalClasspathDirs  []string `mapstructure:"external_classpath"`
	FindDeprecatedAPIUsages bool    `mapstructure:"find_deprecated_api_usages"`
	ProblemFilters         []string `mapstructure:"problem_filters"`
	PackageNotFoundThreshold int    `mapstructure:"package_not_found_threshold"`
}

// Load reads a Config from configPath, or from "verifier.yaml" in the
// working directory if configPath is empty, falling back to defaults
// when the file does not exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		configPath = "verifier.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") || strings.Contains(err.Error(), "Not Found") {
			// no config file present; defaults stand
		} else {
			return nil, fmt.Errorf("failed to read verifier config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verifier config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("external_class_prefixes", []string{})
	v.SetDefault("external_classpath", []string{})
	v.SetDefault("find_deprecated_api_usages", false)
	v.SetDefault("problem_filters", []string{})
	v.SetDefault("package_not_found_threshold", 10)
}

// EnvClasspathVar is the environment variable name EnvClasspath reads,
// mirroring the teacher's own cli_test.go getEnvArgs() convention of
// taking classpath-adjacent settings from an env var. The config
// command prints its entries; the verify command does not add them to
// the classpath a job resolves against.
const EnvClasspathVar = "PLUGIN_VERIFIER_CLASSPATH"

// EnvClasspath splits EnvClasspathVar on the OS path-list separator,
// returning nil if it is unset. This is the one piece of the teacher's
// CLI argument handling kept verbatim in spirit: an env-var classpath
// override, for environments that cannot pass flags directly.
func EnvClasspath() []string {
	raw := os.Getenv(EnvClasspathVar)
	if raw == "" {
		return nil
	}
	return strings.Split(raw, string(os.PathListSeparator))
}
