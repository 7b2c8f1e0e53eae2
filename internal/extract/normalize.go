package extract

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeBody collapses all whitespace runs to a single space so that
// two renderings differing only in formatting hash identically.
func NormalizeBody(body string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(body, " "))
}

// Dedent strips the common leading indentation from every line after the
// first. A unit sliced out of a nested block keeps the enclosing block's
// indent on its continuation lines; removing it makes the same function
// extracted at different nesting depths render identically.
func Dedent(body string) string {
	lines := strings.Split(body, "\n")
	if len(lines) < 2 {
		return body
	}

	indent := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := leadingWhitespace(line)
		if indent == -1 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return body
	}

	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			lines[i+1] = ""
			continue
		}
		lines[i+1] = line[indent:]
	}
	return strings.Join(lines, "\n")
}

// leadingWhitespace counts leading space/tab bytes.
func leadingWhitespace(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}
