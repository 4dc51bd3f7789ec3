// Command nswing runs the nested shallow-water solver. Invoked with no
// arguments it opens a local status page instead of starting a run,
// following the teacher's single-vs-multiple-argument dispatch in
// inmaputil/cmd.go's InitializeConfig/StartWebServer split.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nswing/nswing/internal/config"
	"github.com/nswing/nswing/internal/statusserver"
)

func main() {
	cfg := config.New()

	// Running the root command directly (any flags, no subcommand) drives
	// the solver, matching the teacher's "more than one argument runs the
	// CLI" half of the dispatch.
	cfg.Root.RunE = func(*cobra.Command, []string) error {
		return runSolver(cfg)
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the nswing version.",
		Run: func(*cobra.Command, []string) {
			fmt.Println("nswing (module-local build)")
		},
	}
	cfg.Root.AddCommand(versionCmd)

	if len(os.Args) == 1 {
		srv := statusserver.New("localhost:7171")
		if err := srv.Start(cfg.Root); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := cfg.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
