package diagnostic

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Format builds the human-readable multi-line diagnostic described in
// spec §4.6: "path:line" followed by a ±context window of source lines with
// a ">" marker on the error line, then a blank line and the detail. A
// missing file degrades to the detail, a newline, and
// "(File not found: path:line)".
func Format(path string, line int, detail string, context int) string {
	lines, err := readLines(path)
	if err != nil {
		return fmt.Sprintf("%s\n(File not found: %s:%d)", detail, path, line)
	}

	lo := line - context
	if lo < 1 {
		lo = 1
	}
	hi := line + context
	if hi > len(lines) {
		hi = len(lines)
	}

	width := len(strconv.Itoa(hi))
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d\n", path, line)
	for n := lo; n <= hi; n++ {
		marker := "  "
		if n == line {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%*d | %s\n", marker, width, n, lines[n-1])
	}
	b.WriteString("\n")
	b.WriteString(detail)
	return b.String()
}

// FormatDiagnostic is a convenience wrapper over Format for a Diagnostic
// value, using its own Path/Line/Message as the source for the excerpt.
func FormatDiagnostic(d Diagnostic, context int) string {
	detail := d.Message
	if d.Detail != "" {
		detail = d.Message + "\n" + d.Detail
	}
	return Format(d.Path, d.Line, detail, context)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
