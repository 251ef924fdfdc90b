/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Ololoshechkin/plugin-verifier/tracelog"
)

var (
	flagConfigPath string
	flagVerbose    bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "plugin-verifier",
		Short: "Check plugin class files for binary compatibility against a host and JDK",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if flagVerbose {
				level = zerolog.TraceLevel
			}
			tracelog.Configure(os.Stderr, level)
		},
	}
	root.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "path to verifier.yaml (defaults to ./verifier.yaml)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "emit trace-level diagnostics")

	root.AddCommand(newVerifyCmd())
	root.AddCommand(newConfigCmd())
	return root
}
