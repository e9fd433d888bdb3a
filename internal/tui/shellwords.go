package tui

import (
	"strings"
	"unicode"
)

// splitShellWords splits a command string into argv. Single quotes, double
// quotes and backslash escapes (outside single quotes) are honored.
func splitShellWords(s string) []string {
	var out []string
	var cur strings.Builder
	started := false
	inSingle, inDouble, escaped := false, false, false

	flush := func() {
		if started {
			out = append(out, cur.String())
		}
		cur.Reset()
		started = false
	}

	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
			started = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			started = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			started = true
		case !inSingle && !inDouble && unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()
	return out
}

// viewerArgv builds the argv that opens path with viewer. A "{}" word is
// replaced by the path; otherwise the path is appended.
func viewerArgv(viewer, path string) []string {
	words := splitShellWords(viewer)
	if len(words) == 0 {
		return nil
	}
	replaced := false
	for i, w := range words {
		if strings.Contains(w, "{}") {
			words[i] = strings.ReplaceAll(w, "{}", path)
			replaced = true
		}
	}
	if !replaced {
		words = append(words, path)
	}
	return words
}

// ViewerProgram is the executable a viewer command runs, or "" when the
// command is blank.
func ViewerProgram(viewer string) string {
	words := splitShellWords(viewer)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}
