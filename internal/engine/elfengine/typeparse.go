package elfengine

import (
	"strconv"
	"strings"

	"neoghidra/internal/engine"
)

// baseTypes is the scalar grammar the backend accepts, name to byte size.
var baseTypes = map[string]int{
	"void":      0,
	"bool":      1,
	"byte":      1,
	"char":      1,
	"uchar":     1,
	"sbyte":     1,
	"word":      2,
	"short":     2,
	"ushort":    2,
	"dword":     4,
	"int":       4,
	"uint":      4,
	"qword":     8,
	"long":      8,
	"ulong":     8,
	"longlong":  8,
	"ulonglong": 8,
	"float":     4,
	"double":    8,
	"pointer":   8,
	"string":    0,
	"int8_t":    1,
	"uint8_t":   1,
	"int16_t":   2,
	"uint16_t":  2,
	"int32_t":   4,
	"uint32_t":  4,
	"int64_t":   8,
	"uint64_t":  8,
}

type typeParser struct{}

// Parse handles scalar names plus pointer ("char *") and fixed array
// ("int[4]") derivations.
func (typeParser) Parse(text string) (engine.DataType, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return engine.DataType{}, &engine.TypeParseError{Text: text, Reason: "empty"}
	}

	base := name
	count := 1
	if i := strings.IndexByte(base, '['); i >= 0 {
		if !strings.HasSuffix(base, "]") {
			return engine.DataType{}, &engine.TypeParseError{Text: text, Reason: "unterminated array"}
		}
		n, err := strconv.Atoi(base[i+1 : len(base)-1])
		if err != nil || n <= 0 {
			return engine.DataType{}, &engine.TypeParseError{Text: text, Reason: "bad array length"}
		}
		count = n
		base = strings.TrimSpace(base[:i])
	}

	pointer := false
	for strings.HasSuffix(base, "*") {
		pointer = true
		base = strings.TrimSpace(strings.TrimSuffix(base, "*"))
	}

	size, ok := baseTypes[base]
	if !ok {
		return engine.DataType{}, &engine.TypeParseError{Text: text, Reason: "unknown type"}
	}
	if pointer {
		size = 8
	}

	return engine.DataType{Name: name, Size: size * count}, nil
}
