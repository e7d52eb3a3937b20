package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cruffinoni/pugc/internal/flags"
	"github.com/cruffinoni/pugc/internal/viewengine"
)

// newWatchCmd demonstrates the register-view-engine collaborator contract
// (spec §6): compile once, cache the artifact, and recompile whenever any
// file in the resolved dependency set changes on disk. A real web-server
// integration would install this same cache-lookup-then-recompile sequence
// as a per-request callback; this subcommand just loops it to a terminal.
func newWatchCmd() *cobra.Command {
	var (
		out       string
		extension string
	)

	cmd := &cobra.Command{
		Use:   "watch <template>",
		Short: "Recompile a template's host-script artifact whenever it or a dependency changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], out, extension)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Artifact output path; defaults to stdout")
	cmd.Flags().StringVar(&extension, "extension", flags.Default().Extension, "Default template suffix for include/extends resolution")

	return cmd
}

func runWatch(ctx context.Context, path, out, extension string) error {
	cache, err := viewengine.New()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer cache.Close()

	fl := flags.Default()
	if extension != "" {
		fl.Extension = extension
	}

	emit := func() error {
		result, err := cache.Compile(path, fl)
		if err != nil {
			return err
		}
		if out == "" {
			fmt.Println(result.Script)
			return nil
		}
		return os.WriteFile(out, []byte(result.Script), 0o644)
	}

	if err := emit(); err != nil {
		return newExitError(ExitCodeCompileFailed, err)
	}
	slog.Info("watching for changes", "template", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case root, ok := <-cache.Changed():
			if !ok {
				return nil
			}
			slog.Info("dependency changed, recompiling", "template", root)
			if err := emit(); err != nil {
				slog.Error("recompile failed", "template", root, "error", err)
			}
		case err, ok := <-cache.Errors():
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		}
	}
}
