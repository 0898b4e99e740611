package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mrizaln/relinka/internal/version"
	"github.com/mrizaln/relinka/pkg/errors"
	"github.com/mrizaln/relinka/pkg/filesystem"
	"github.com/mrizaln/relinka/pkg/logging"
	"github.com/mrizaln/relinka/pkg/paths"
	"github.com/mrizaln/relinka/pkg/swap"
)

var (
	verbosity int
	doRelink  bool

	rootCmd = &cobra.Command{
		Use:   "swap <target> <destination> [lookup-dir]",
		Short: "Exchange the locations of two filesystem entries",
		Long: `swap exchanges the locations of two regular files, or of a regular
file and a symlink that resolves to it. Filenames are preserved; only
the parent directories trade places. In the symlink case the link is
re-created afterwards so it keeps pointing at the file.

With --relink, symlinks under lookup-dir that point at either entry
are rewritten to follow it.`,
		Args: cobra.RangeArgs(2, 3),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE:          runSwap,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.Flags().BoolVar(&doRelink, "relink", false, "Rewrite symlinks under lookup-dir that point at the swapped entries")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("swap (relinka) version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

func runSwap(cmd *cobra.Command, args []string) error {
	target, err := paths.ExpandHome(args[0])
	if err != nil {
		return err
	}
	destination, err := paths.ExpandHome(args[1])
	if err != nil {
		return err
	}

	opts := swap.Options{}
	if doRelink && len(args) < 3 {
		return errors.New(errors.ErrInvalidInput, "--relink requires a lookup-dir argument")
	}
	if len(args) == 3 {
		lookupDir, err := paths.ExpandHome(args[2])
		if err != nil {
			return err
		}
		opts.LookupDir = lookupDir
		opts.RelinkDependents = doRelink
	}

	engine := swap.New(filesystem.NewOS())
	result, err := engine.Swap(target, destination, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%s is now at %s\n", target, result.NewTargetPath)
	fmt.Printf("%s is now at %s\n", destination, result.NewDestinationPath)
	for _, link := range result.RelinkedDependents {
		fmt.Printf("relinked %s\n", link)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
