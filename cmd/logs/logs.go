// cmd/logs/logs.go
package logs

import (
	"fmt"
	"io"
	"os"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_cli"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_io"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewCommand returns 'netguard logs', which prints the tail of the log file.
func NewCommand(load ng_cli.Loader) *cobra.Command {
	var (
		lines  int
		colour bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the most recent lines of the log file",
		Args:  cobra.NoArgs,
		RunE: ng_cli.Wrap(load, func(rc *ng_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
			if lines < 0 {
				return ng_err.NewValidationError(fmt.Sprintf("--lines must not be negative, got %d", lines), nil)
			}
			tail, err := logger.ReadTail(rc.Config.LogFile, lines)
			if err != nil {
				return ng_err.NewExpectedError(err)
			}
			out := cmd.OutOrStdout()
			useColour := colour
			if !cmd.Flags().Changed("colour") {
				useColour = isTerminal(out)
			}
			for _, line := range tail {
				if useColour {
					line = logger.ColouredLine(line)
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "number of lines to print (0 prints all)")
	cmd.Flags().BoolVar(&colour, "colour", false, "colour lines by level (default: when stdout is a terminal)")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
