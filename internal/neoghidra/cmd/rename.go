package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"neoghidra/internal/analysis"
	"neoghidra/internal/engine/elfengine"
	"neoghidra/internal/logging"
	"neoghidra/internal/report"
)

var renameCmd = &cobra.Command{
	Use:   "rename [binary] [address] [new-name]",
	Short: "Rename the symbol at an address",
	Long: `Rename looks up the symbols bound at the given address and renames the
first one, attributing the new name to user-defined provenance. The result
is a marker-delimited JSON object with success flag and message; failures
(bad address text, no symbol at the address) are reported there, never as a
process error.`,
	Example: `
neoghidra rename /path/to/binary 0x1000 process_input
  `,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.NewLogger()
		defer logger.Close()

		res := withMutator(logger, args[0], func(m *analysis.Mutator) report.MutationResult {
			return m.RenameSymbol(args[1], args[2])
		})
		return report.Write(os.Stdout, &res)
	},
}

var setTypeCmd = &cobra.Command{
	Use:   "set-type [binary] [address] [type]",
	Short: "Assign a data type at an address",
	Long: `Set-type parses the type text with the engine's type grammar and assigns
it to the existing data at the given address. Assignments over undefined
bytes or code are refused, and the type text is not parsed in that case.`,
	Example: `
neoghidra set-type /path/to/binary 0x4020 int
neoghidra set-type /path/to/binary 0x4028 'char *'
  `,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.NewLogger()
		defer logger.Close()

		res := withMutator(logger, args[0], func(m *analysis.Mutator) report.MutationResult {
			return m.SetDataType(args[1], args[2])
		})
		return report.Write(os.Stdout, &res)
	},
}

// withMutator opens the engine and applies one mutation, folding open
// failures into the same result shape the mutation itself uses.
func withMutator(logger *logging.LoggerCloser, path string, op func(*analysis.Mutator) report.MutationResult) report.MutationResult {
	eng, err := elfengine.Open(path)
	if err != nil {
		logger.Error("engine open failed", "file", path, "err", err)
		return report.MutationResult{Success: false, Message: err.Error()}
	}
	defer eng.Close()
	return op(analysis.NewMutator(eng))
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(setTypeCmd)
}
