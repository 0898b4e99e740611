// Package ui provides the console confirmation dialog for relink
// plans.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/mrizaln/relinka/pkg/types"
)

// ConsoleDialog implements types.ConfirmationDialog on stdin/stdout
type ConsoleDialog struct {
	in  io.Reader
	out io.Writer
}

// NewConsoleDialog creates a dialog reading from stdin and writing to
// stdout
func NewConsoleDialog() *ConsoleDialog {
	return &ConsoleDialog{in: os.Stdin, out: os.Stdout}
}

// NewDialog creates a dialog with explicit streams, for tests
func NewDialog(in io.Reader, out io.Writer) *ConsoleDialog {
	return &ConsoleDialog{in: in, out: out}
}

// ConfirmPlan renders the proposed move and every link rewrite as a
// table, then prompts. Only an explicit "y"/"yes" proceeds; anything
// else, including empty input, declines.
func (d *ConsoleDialog) ConfirmPlan(plan *types.RelinkPlan) (bool, error) {
	fmt.Fprintf(d.out, "Rename: %s -> %s\n", plan.Source, plan.Destination)

	if plan.HasRewrites() {
		data := pterm.TableData{{"Link", "Old target", "New target"}}
		for _, rewrite := range plan.Rewrites {
			data = append(data, []string{rewrite.LinkPath, rewrite.OldTarget, rewrite.NewTarget})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return false, fmt.Errorf("failed to render plan table: %w", err)
		}
		fmt.Fprintln(d.out, table)
	} else {
		fmt.Fprintln(d.out, "No links to fix")
	}

	fmt.Fprint(d.out, "Proceed? (y/N): ")

	reader := bufio.NewReader(d.in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
