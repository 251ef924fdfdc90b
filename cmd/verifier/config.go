/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ololoshechkin/plugin-verifier/verifyconfig"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective verifier configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := verifyconfig.Load(flagConfigPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "external_class_prefixes: %v\n", cfg.ExternalClassPrefixes)
			fmt.Fprintf(out, "external_classpath: %v\n", cfg.ExternalClasspathDirs)
			fmt.Fprintf(out, "find_deprecated_api_usages: %v\n", cfg.FindDeprecatedAPIUsages)
			fmt.Fprintf(out, "problem_filters: %v\n", cfg.ProblemFilters)
			fmt.Fprintf(out, "package_not_found_threshold: %v\n", cfg.PackageNotFoundThreshold)
			if env := verifyconfig.EnvClasspath(); len(env) > 0 {
				fmt.Fprintf(out, "%s: %v\n", verifyconfig.EnvClasspathVar, env)
			}
			return nil
		},
	}
}
