package tzindex

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ngrash/go-tzmap/internal/fsutil"
)

// DebugMode is the permission of the debug listings.
const DebugMode os.FileMode = 0o600

// FormatNameToNum renders the index as a list of per-quadrant name to number
// dictionaries in Python literal syntax, e.g.
//
//	[{'Africa/Lagos': 0, 'Europe/Paris': 1}, {}, {}, {}]
//
// Entries are ordered by number.
func FormatNameToNum(idx Index) string {
	return formatList(idx, func(b *strings.Builder, num int, name string) {
		b.WriteString(pyQuote(name))
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(num))
	})
}

// FormatNumToName renders the inverse of FormatNameToNum, e.g.
//
//	[{0: 'Africa/Lagos', 1: 'Europe/Paris'}, {}, {}, {}]
func FormatNumToName(idx Index) string {
	return formatList(idx, func(b *strings.Builder, num int, name string) {
		b.WriteString(strconv.Itoa(num))
		b.WriteString(": ")
		b.WriteString(pyQuote(name))
	})
}

func formatList(idx Index, entry func(b *strings.Builder, num int, name string)) string {
	var b strings.Builder
	b.WriteByte('[')
	for q := range idx.quads {
		if q > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('{')
		for i, n := range idx.quads[q].names {
			if i > 0 {
				b.WriteString(", ")
			}
			entry(&b, i, n)
		}
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.String()
}

// pyQuote quotes s like Python's repr does for str values.
func pyQuote(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == quote:
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(quote)
	return b.String()
}

// WriteDebugFiles writes FormatNameToNum to name2numPath and FormatNumToName
// to num2namePath, replacing existing files. The listings are for humans;
// nothing reads them back.
func WriteDebugFiles(name2numPath, num2namePath string, idx Index) error {
	files := []struct {
		path    string
		content string
	}{
		{name2numPath, FormatNameToNum(idx)},
		{num2namePath, FormatNumToName(idx)},
	}
	for _, f := range files {
		err := fsutil.WriteFile(f.path, DebugMode, func(w io.Writer) error {
			_, err := io.WriteString(w, f.content)
			return err
		})
		if err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}
	return nil
}
