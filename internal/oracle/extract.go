package oracle

import (
	"errors"
	"strings"
)

// ErrMalformedOutput is returned when an oracle response does not contain a
// complete JSON array. Callers catch this and apply their stage's degrade
// policy; it never propagates past a stage boundary.
var ErrMalformedOutput = errors.New("malformed oracle output: no complete JSON array")

// ExtractJSONArray pulls the first complete JSON array out of free text.
// Oracle responses should contain exactly one array but are often wrapped in
// prose or markdown fences. The scan tracks bracket depth from the first '['
// and ignores brackets inside JSON strings.
func ExtractJSONArray(s string) (string, error) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", ErrMalformedOutput
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", ErrMalformedOutput
}
