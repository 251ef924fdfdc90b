/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ololoshechkin/plugin-verifier/problem"
	"github.com/Ololoshechkin/plugin-verifier/resolver"
	"github.com/Ololoshechkin/plugin-verifier/target"
	"github.com/Ololoshechkin/plugin-verifier/verifyconfig"
)

func newVerifyCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run a verification job against a manifest describing plugin, host, and JDK classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := verifyconfig.Load(flagConfigPath)
			if err != nil {
				return err
			}
			manifest, err := verifyconfig.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
			return runVerify(cmd, cfg, manifest)
		},
	}
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "path to a verification manifest (YAML)")
	cmd.MarkFlagRequired("manifest")
	return cmd
}

func runVerify(cmd *cobra.Command, cfg *verifyconfig.Config, manifest *verifyconfig.Manifest) error {
	pluginResolver := resolver.NewMapResolver("plugin", verifyconfig.ToClassNodes(manifest.Plugin)...)
	hostResolver := resolver.NewMapResolver("host", verifyconfig.ToClassNodes(manifest.Host)...)
	jdkResolver := resolver.NewMapResolver("jdk", verifyconfig.ToClassNodes(manifest.JDK)...)

	classesToCheck := manifest.Check
	if len(classesToCheck) == 0 {
		for _, c := range manifest.Plugin {
			classesToCheck = append(classesToCheck, c.Name)
		}
	}

	declaredDeps := make([]target.Dependency, 0, len(manifest.Dependencies))
	for _, d := range manifest.Dependencies {
		declaredDeps = append(declaredDeps, target.Dependency{ID: d.ID, IsOptional: d.Optional})
	}

	result := target.Verify(context.Background(),
		target.IdeDescriptor{ClassResolver: hostResolver},
		target.PluginDetails{
			PluginID:             manifest.PluginID,
			DeclaredDependencies: declaredDeps,
			ClassResolver:        pluginResolver,
			ClassesToCheck:       classesToCheck,
		},
		target.JdkDescriptor{Resolver: jdkResolver},
		target.VerifierParameters{
			ExternalClassPrefixes:    cfg.ExternalClassPrefixes,
			FindDeprecatedAPIUsages:  cfg.FindDeprecatedAPIUsages,
			ProblemFilters:           problem.NewGlobFilters(cfg.ProblemFilters...),
			PackageNotFoundThreshold: cfg.PackageNotFoundThreshold,
			DependencyFinder:         verifyconfig.NewManifestFinder(manifest),
		},
	)

	fmt.Fprintf(cmd.OutOrStdout(), "verified %s: status=%v, %d problem(s), %d usage(s)\n",
		result.PluginID, result.Status, len(result.CompatibilityProblems), len(result.Usages))
	for _, p := range result.CompatibilityProblems {
		fmt.Fprintln(cmd.OutOrStdout(), "  "+p.FullDescription())
	}
	for _, ig := range result.IgnoredProblems {
		fmt.Fprintf(cmd.OutOrStdout(), "  ignored: %s (%s)\n", ig.Problem.ShortDescription(), ig.Reason)
	}
	for _, w := range result.StructureWarnings {
		fmt.Fprintf(cmd.OutOrStdout(), "  warning: %s\n", w)
	}
	for _, missing := range result.DependencyGraph.Missing {
		fmt.Fprintf(cmd.OutOrStdout(), "  missing dependency: %s -> %s (%s)\n", missing.FromPluginID, missing.ToPluginID, missing.Reason)
	}
	for _, cycle := range result.DependencyGraph.Cycles {
		fmt.Fprintf(cmd.OutOrStdout(), "  dependency cycle: %v\n", cycle.PluginIDs)
	}
	return nil
}
