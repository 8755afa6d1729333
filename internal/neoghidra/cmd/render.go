package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"neoghidra/internal/neoghidra/styles"
	"neoghidra/internal/report"
	"neoghidra/internal/ui/colorize"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a report document for human reading",
	Long: `Render reads a marker-delimited document (from a file or stdin) and
pretty-prints it: program metadata, the decompiled entry function as
highlighted C, the function and symbol catalogs, and the colorized
disassembly window. Error reports render as a diagnostic summary.`,
	Example: `
neoghidra analyze /path/to/binary | neoghidra render
neoghidra render report.txt
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open document: %w", err)
			}
			defer f.Close()
			r = f
		}

		raw, err := report.Extract(r)
		if err != nil {
			return err
		}
		doc, err := report.Parse(raw)
		if err != nil {
			return err
		}

		switch d := doc.(type) {
		case *report.Failure:
			renderFailure(cmd.OutOrStdout(), d)
		case *report.Analysis:
			renderAnalysis(cmd.OutOrStdout(), d)
		default:
			return fmt.Errorf("unsupported document shape")
		}
		return nil
	},
}

func renderFailure(w io.Writer, f *report.Failure) {
	fmt.Fprintln(w, errStyle.Render("analysis failed"), labelStyle.Render(f.ProgramName))
	fmt.Fprintln(w, f.Message)
	if f.Traceback != "" {
		fmt.Fprintln(w, labelStyle.Render(f.Traceback))
	}
}

func renderAnalysis(w io.Writer, a *report.Analysis) {
	fmt.Fprintln(w, headerStyle.Render(a.ProgramName))
	fmt.Fprintf(w, "%s %s   %s %s   %s %s\n\n",
		labelStyle.Render("language"), a.Language,
		labelStyle.Render("image base"), a.ImageBase,
		labelStyle.Render("entry"), a.EntryPoint)

	if a.EntryFunction != nil {
		md := fmt.Sprintf("## %s\n\n`%s`\n\n```c\n%s\n```\n",
			a.EntryFunction.Name, a.EntryFunction.Signature, a.EntryFunction.Code)
		if rendered, err := styles.GetMarkdownRenderer(renderWidth()).Render(md); err == nil {
			fmt.Fprint(w, rendered)
		} else {
			fmt.Fprint(w, colorize.ColorizeC(a.EntryFunction.Code))
		}
	}

	fmt.Fprintf(w, "%s (%d)\n", headerStyle.Render("functions"), len(a.Functions))
	for _, fn := range a.Functions {
		fmt.Fprintf(w, "  %s  %s\n", labelStyle.Render(fn.EntryPoint), fn.Signature)
	}

	fmt.Fprintf(w, "\n%s (%d)\n", headerStyle.Render("symbols"), len(a.Symbols))
	for _, s := range a.Symbols {
		fmt.Fprintf(w, "  %s  %-8s %-12s %s\n",
			labelStyle.Render(s.Address), s.Type, s.Source, s.Name)
	}

	fmt.Fprintf(w, "\n%s (%d instructions from %s)\n",
		headerStyle.Render("disassembly"), len(a.Disassembly), a.EntryPoint)
	for _, in := range a.Disassembly {
		line := formatInstruction(in)
		fmt.Fprintln(w, "  "+colorize.ColorizeInstructionLine(line))
	}
}

func formatInstruction(in report.InstructionRecord) string {
	base := fmt.Sprintf("%-10s %-6s %-30s", in.Address, in.Mnemonic, in.Operands)
	if in.Comment != "" {
		return fmt.Sprintf("%s ; %s", base, in.Comment)
	}
	return strings.TrimRight(base, " ")
}

func renderWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 20 {
		return w
	}
	return 100
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
