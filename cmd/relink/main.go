package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mrizaln/relinka/internal/version"
	"github.com/mrizaln/relinka/pkg/config"
	"github.com/mrizaln/relinka/pkg/errors"
	"github.com/mrizaln/relinka/pkg/filesystem"
	"github.com/mrizaln/relinka/pkg/logging"
	"github.com/mrizaln/relinka/pkg/paths"
	"github.com/mrizaln/relinka/pkg/relink"
	"github.com/mrizaln/relinka/pkg/ui"
)

var (
	verbosity int
	maxDepth  int
	matchMode string
	assumeYes bool

	rootCmd = &cobra.Command{
		Use:   "relink <source> <destination> [search-root]",
		Short: "Move a file or directory and keep its symlinks valid",
		Long: `relink renames or relocates a filesystem entry while discovering
every symlink under the search root that references it, and rewrites
each link so it still resolves after the move.

The proposed changes are shown for confirmation before anything is
touched; declining leaves the filesystem untouched. The search root
defaults to the configured value (the home directory out of the box).`,
		Args: cobra.RangeArgs(2, 3),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE:          runRelink,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.Flags().IntVarP(&maxDepth, "depth", "d", 0, "Max depth to search for links (default from config)")
	rootCmd.Flags().StringVar(&matchMode, "mode", "", "Link matching mode: strict or substring (default from config)")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Apply the plan without asking for confirmation")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("relink (relinka) version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

func runRelink(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	source, err := paths.ExpandHome(args[0])
	if err != nil {
		return err
	}
	dest, err := paths.ExpandHome(args[1])
	if err != nil {
		return err
	}

	searchRoot, err := cfg.SearchRoot()
	if err != nil {
		return err
	}
	if len(args) == 3 {
		searchRoot, err = paths.ExpandHome(args[2])
		if err != nil {
			return err
		}
	}

	depth := cfg.Search.MaxDepth
	if maxDepth > 0 {
		depth = maxDepth
	}
	mode := relink.MatchMode(cfg.Search.Mode)
	if matchMode != "" {
		mode = relink.MatchMode(matchMode)
	}
	switch mode {
	case relink.MatchStrict, relink.MatchSubstring:
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown match mode %q", mode)
	}

	retargeter := relink.New(filesystem.NewOS(), relink.Options{
		SearchRoot: searchRoot,
		MaxDepth:   depth,
		Mode:       mode,
		Ignore:     cfg.Search.Ignore,
		Dialog:     ui.NewConsoleDialog(),
		AssumeYes:  assumeYes,
	})

	plan, err := retargeter.MoveRelink(source, dest)
	if err != nil {
		return err
	}

	fmt.Printf("Renamed %s -> %s\n", plan.Source, plan.Destination)
	if plan.HasRewrites() {
		fmt.Printf("Rewrote %d symlink(s)\n", len(plan.Rewrites))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
