/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

// Command verifier is the command-line entry point: "verify" runs a
// verification job over the plugin, host and JDK classes described in a
// YAML manifest; "config" prints the effective configuration.
// Grounded in the teacher's own HandleCli(args) dispatcher (cli_test.go),
// generalized from jacobin's single flat flag parser to cobra's
// subcommand tree, the convention bisibesi-spec-recon's cmd/spec-recon
// and sunholo-data-ailang's cmd/* binaries both follow.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
