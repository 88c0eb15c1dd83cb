package wcdb

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"modernc.org/sqlite"
)

// sqlText is what prepare needs to know about a statement text before the
// engine sees it.
type sqlText struct {
	// names maps a 0-based bind index to the parameter name without its
	// prefix, or "" for ?, ?NNN and names database/sql cannot carry.
	names []string
	// single is false when another statement follows the first one.
	single bool
}

// scanSQL walks query the way the engine tokenizer does, skipping string
// literals, quoted identifiers and comments. Parameters are numbered like
// the engine numbers them: ?NNN takes NNN, every other new parameter takes
// the largest index so far plus one, and a repeated name reuses its index.
func scanSQL(query string) sqlText {
	text := sqlText{single: true}
	seen := make(map[string]int)
	ended := false
	assign := func(index int, name string) {
		for len(text.names) < index {
			text.names = append(text.names, "")
		}
		if name != "" && text.names[index-1] == "" {
			text.names[index-1] = name
		}
	}
	for i := 0; i < len(query); {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(query, i, c)
		case c == '[':
			if end := strings.IndexByte(query[i:], ']'); end >= 0 {
				i += end + 1
			} else {
				i = len(query)
			}
		case c == '-' && strings.HasPrefix(query[i:], "--"):
			if end := strings.IndexByte(query[i:], '\n'); end >= 0 {
				i += end + 1
			} else {
				i = len(query)
			}
			continue
		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			if end := strings.Index(query[i+2:], "*/"); end >= 0 {
				i += end + 4
			} else {
				i = len(query)
			}
			continue
		case c == ';':
			ended = true
			i++
			continue
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			i++
			continue
		case c == '?':
			j := i + 1
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				j++
			}
			index := len(text.names) + 1
			if j > i+1 {
				if n, err := strconv.Atoi(query[i+1 : j]); err == nil && n > 0 {
					index = n
				}
			}
			assign(index, "")
			i = j
		case c == ':' || c == '@' || c == '$':
			j := i + 1
			for j < len(query) {
				r, size := utf8.DecodeRuneInString(query[j:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				j += size
			}
			if j == i+1 {
				i++
				break
			}
			token := query[i:j]
			index, ok := seen[token]
			if !ok {
				index = len(text.names) + 1
				seen[token] = index
			}
			name := query[i+1 : j]
			if first, _ := utf8.DecodeRuneInString(name); !unicode.IsLetter(first) {
				name = ""
			}
			assign(index, name)
			i = j
		default:
			i++
		}
		if ended {
			text.single = false
		}
	}
	return text
}

func skipQuoted(query string, i int, quote byte) int {
	for j := i + 1; j < len(query); j++ {
		if query[j] != quote {
			continue
		}
		if j+1 < len(query) && query[j+1] == quote {
			j++
			continue
		}
		return j + 1
	}
	return len(query)
}

// compileSQL makes the engine compile query without running it. The driver
// compiles lazily, so the text is compiled as EXPLAIN, which only returns
// the program. An error that is not the engine's comes from binding, after
// the compile succeeded.
func compileSQL(ctx context.Context, conn *sql.Conn, query string) error {
	check := query
	if keyword, _, _ := strings.Cut(strings.TrimSpace(query), " "); !strings.EqualFold(keyword, "EXPLAIN") {
		check = "EXPLAIN " + query
	}
	rows, err := conn.QueryContext(ctx, check)
	if err != nil {
		var engine *sqlite.Error
		if errors.As(err, &engine) {
			return err
		}
		return nil
	}
	return rows.Close()
}
