// Package cli implements the CLI collaborator (spec §6): a thin wrapper
// exposing the transpile-and-render contract's transpile half as a `compile`
// subcommand, and a `watch` subcommand demonstrating the register-view-engine
// contract's cache-then-recompile loop against internal/viewengine. Neither
// subcommand is part of the core contract; both are the minimal collaborator
// spec §6 describes. Grounded on the teacher's cli.NewRootCmd/ExitError shape.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/cruffinoni/pugc/internal/config"
	"github.com/cruffinoni/pugc/internal/logging"
)

// NewRootCmd wires CLI flags to configuration and executes the transpiler.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pugc",
		Short:         "Transpile indentation-based templates to a host-script artifact",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Configure()
		},
	}

	cmd.AddCommand(newCompileCmd())
	cmd.AddCommand(newWatchCmd())

	return cmd
}

func newCompileCmd() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Transpile every template under --in to a host-script artifact under --out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompile(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.In, "in", "", "Input root directory containing templates")
	cmd.Flags().StringVar(&cfg.Out, "out", "", "Output root directory for compiled artifacts")
	cmd.Flags().StringVar(&cfg.Glob, "glob", cfg.Glob, "Glob pattern relative to --in (supports **)")
	cmd.Flags().StringVar(&cfg.Ext, "ext", cfg.Ext, "Output artifact extension (example: .pugjs)")
	cmd.Flags().StringVar(&cfg.Extension, "extension", cfg.Extension, "Default template suffix for include/extends resolution")
	cmd.Flags().StringVar(&cfg.BaseDir, "base-dir", cfg.BaseDir, "Root for absolute include/extends paths")
	cmd.Flags().BoolVar(&cfg.Properties, "properties", cfg.Properties, "Render boolean attributes as bare properties")
	cmd.Flags().BoolVar(&cfg.VoidSelfClose, "void-self-close", cfg.VoidSelfClose, "Self-close void tags (<img />)")
	cmd.Flags().BoolVar(&cfg.ContainerSelfClose, "container-self-close", cfg.ContainerSelfClose, "Self-close empty containers (<div />)")
	cmd.Flags().BoolVar(&cfg.KebabCase, "kebab-case", cfg.KebabCase, "Convert CamelCase tag names to kebab-case")
	cmd.Flags().IntVar(&cfg.ErrorContext, "error-context", cfg.ErrorContext, "Lines of source context around a diagnostic")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", cfg.Strict, "Stop at the first failing file instead of continuing the batch")
	cmd.Flags().StringVar(&cfg.ReportJSON, "report-json", "", "Optional JSON report output path")
	cmd.Flags().StringVar(&cfg.ReportCSV, "report-csv", "", "Optional CSV report output path")

	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
