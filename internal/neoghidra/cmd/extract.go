package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"neoghidra/internal/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract the JSON document from a marked stream",
	Long: `Extract scans an engine output stream for the marker pair and prints the
JSON document between them, discarding any surrounding diagnostic output.
With no file argument it reads stdin. With --follow it tails the file and
prints each complete document as it appears.`,
	Example: `
# Pull the report out of a captured headless run
neoghidra extract engine-output.log

# From a pipe
analyzeHeadless ... | neoghidra extract

# Watch a live engine log
neoghidra extract --follow engine-output.log
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")

		if follow {
			if len(args) == 0 {
				return fmt.Errorf("--follow requires a file argument")
			}
			return followDocuments(args[0])
		}

		var r io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open stream: %w", err)
			}
			defer f.Close()
			r = f
		}

		raw, err := report.Extract(r)
		if err != nil {
			return err
		}
		fmt.Print(string(raw))
		return nil
	},
}

// followDocuments tails the file and emits every complete marker-delimited
// document until interrupted.
func followDocuments(path string) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow: true,
		ReOpen: true,
		Logger: tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("tail %s: %w", path, err)
	}
	defer t.Cleanup()

	var body strings.Builder
	inside := false
	for line := range t.Lines {
		if line.Err != nil {
			return fmt.Errorf("tail %s: %w", path, line.Err)
		}
		text := strings.TrimSpace(line.Text)
		switch {
		case !inside && text == report.StartMarker:
			inside = true
			body.Reset()
		case inside && text == report.EndMarker:
			inside = false
			fmt.Print(body.String())
		case inside:
			body.WriteString(line.Text)
			body.WriteByte('\n')
		}
	}
	return nil
}

func init() {
	extractCmd.Flags().BoolP("follow", "f", false, "Tail the file and emit documents as they complete")
	rootCmd.AddCommand(extractCmd)
}
