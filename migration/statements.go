package migration

import (
	"regexp"
	"strings"
)

var (
	dollarQuoteRegexp = regexp.MustCompile(`\$[A-Za-z_]*\$`)
	literalRegexp     = regexp.MustCompile(`'[^']*'`)
	blockWordRegexp   = regexp.MustCompile(`(?i)\b(BEGIN|CASE|END)\b(?:\s+(IF|LOOP|WHILE|REPEAT|CASE)\b)?`)
	txControlRegexp   = regexp.MustCompile(`(?i)^BEGIN(\s+\w+)?\s*;$`)
)

// SplitStatements splits a SQL script into statements terminated by a
// semicolon at the end of a line. Full line comments are dropped.
// Semicolons inside BEGIN ... END blocks (trigger bodies), CASE ... END
// expressions and dollar quoted bodies do not end a statement.
// MySQL DELIMITER directives are not understood.
func SplitStatements(script string) []string {
	var result []string
	var current strings.Builder
	var sc statementScanner

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if !sc.inDollar && (trimmed == "" || strings.HasPrefix(trimmed, "--")) {
			continue
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(strings.TrimRight(line, " \t\r"))

		if sc.ends(trimmed) {
			result = append(result, current.String())
			current.Reset()
		}
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		result = append(result, rest)
	}

	return result
}

// statementScanner follows block nesting across the lines of one script
type statementScanner struct {
	depth    int
	inDollar bool
}

// ends reports whether the line terminates the current statement
func (sc *statementScanner) ends(line string) bool {
	code := literalRegexp.ReplaceAllString(line, "''")

	for i, part := range dollarQuoteRegexp.Split(code, -1) {
		if i > 0 {
			sc.inDollar = !sc.inDollar
		}

		if sc.inDollar {
			continue
		}

		if j := strings.Index(part, "--"); j >= 0 {
			part = part[:j]
		}

		sc.count(part)
		code = part
	}

	return !sc.inDollar && sc.depth == 0 && strings.HasSuffix(strings.TrimSpace(code), ";")
}

func (sc *statementScanner) count(code string) {
	if txControlRegexp.MatchString(strings.TrimSpace(code)) {
		return
	}

	for _, m := range blockWordRegexp.FindAllStringSubmatch(code, -1) {
		switch strings.ToUpper(m[1]) {
		case "BEGIN", "CASE":
			sc.depth++
		case "END":
			closesBlock := m[2] == "" || strings.EqualFold(m[2], "CASE")
			if closesBlock && sc.depth > 0 {
				sc.depth--
			}
		}
	}
}
