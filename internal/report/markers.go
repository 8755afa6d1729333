package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Marker lines framing each document. The surrounding stream may carry
// unrelated diagnostic output, so consumers scan for the pair instead of
// parsing the stream as JSON.
const (
	StartMarker = "__NEOGHIDRA_JSON_START__"
	EndMarker   = "__NEOGHIDRA_JSON_END__"
)

// ErrNoDocument is returned by Extract when the stream ends before a
// complete marker pair is seen.
var ErrNoDocument = errors.New("no marker-delimited document found")

// Write emits one framed document: start marker, pretty-printed JSON, end
// marker, each on its own line.
func Write(w io.Writer, doc Document) error {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n", StartMarker, body, EndMarker); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Extract scans r for the first complete marker pair and returns the raw
// JSON between them. Text outside the markers is ignored.
func Extract(r io.Reader) ([]byte, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var body strings.Builder
	inside := false
	for sc.Scan() {
		line := sc.Text()
		switch {
		case !inside && strings.TrimSpace(line) == StartMarker:
			inside = true
		case inside && strings.TrimSpace(line) == EndMarker:
			return []byte(body.String()), nil
		case inside:
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan stream: %w", err)
	}
	return nil, ErrNoDocument
}

// Parse decodes an extracted document, discriminating on the error flag the
// way downstream consumers do. It returns either *Analysis or *Failure.
func Parse(raw []byte) (Document, error) {
	var probe struct {
		Error bool `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if probe.Error {
		var f Failure
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse error report: %w", err)
		}
		return &f, nil
	}
	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parse analysis report: %w", err)
	}
	return &a, nil
}
