// Package colorize applies chroma syntax highlighting to disassembly
// listings and decompiled C for terminal display. Colors are disabled with
// NEOGHIDRA_NO_COLOR.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

func disabled() bool {
	return os.Getenv("NEOGHIDRA_NO_COLOR") != ""
}

// getAssemblyLexer returns an appropriate assembly lexer with fallbacks
func getAssemblyLexer() chroma.Lexer {
	// nasm handles comments well; armasm as fallback
	candidates := []string{"nasm", "armasm", "gas"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getDisasmStyle returns the disassembly style with fallbacks
func getDisasmStyle() *chroma.Style {
	candidates := []string{"disasm-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

func colorizeWith(lexer chroma.Lexer, code string) string {
	if lexer == nil {
		return code
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getDisasmStyle(), iterator); err != nil {
		return code
	}
	return buf.String()
}

// ColorizeC applies syntax highlighting to decompiled C source.
func ColorizeC(code string) string {
	if disabled() {
		return code
	}
	return colorizeWith(lexers.Get("c"), code)
}

// ColorizeInstructionLine colorizes one formatted listing line, keeping the
// leading address in gray. Expected format: "0xaddr  mnemonic operands ; comment".
func ColorizeInstructionLine(line string) string {
	if disabled() {
		return line
	}

	parts := strings.SplitN(line, " ", 2)
	if len(parts) < 2 || !isHexAddress(parts[0]) {
		return colorizeWith(getAssemblyLexer(), line)
	}

	addr := fmt.Sprintf("\033[38;2;79;79;79m%s\033[0m", parts[0])
	return fmt.Sprintf("%s %s", addr, colorizeWith(getAssemblyLexer(), parts[1]))
}

func isHexAddress(s string) bool {
	t := strings.TrimPrefix(s, "0x")
	if t == "" {
		return false
	}
	for _, ch := range t {
		if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')) {
			return false
		}
	}
	return true
}
