package textstore

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

const (
	sep        = "\t"
	valueTrue  = "true"
	valueFalse = "false"
)

// Decode parses `name<TAB>true|false` lines. Empty lines are skipped, any
// other malformed line fails the whole decode. A repeated name keeps the
// last flag seen.
func Decode(r io.Reader) (map[string]bool, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	items := make(map[string]bool)
	for i, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, sep)
		if !found {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: "missing tab separator"}
		}
		switch value {
		case valueTrue:
			items[name] = true
		case valueFalse:
			items[name] = false
		default:
			return nil, &ParseError{Line: i + 1, Text: line, Reason: "flag must be true or false"}
		}
	}
	return items, nil
}

// Encode writes one `name<TAB>flag\n` line per entry, sorted by name.
func Encode(w io.Writer, items map[string]bool) error {
	bw := bufio.NewWriter(w)
	for _, name := range sortedNames(items) {
		if _, err := fmt.Fprintf(bw, "%s%s%t\n", name, sep, items[name]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func sortedNames(items map[string]bool) []string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
