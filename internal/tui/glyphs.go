package tui

import (
	"strings"
	"sync"
)

// Some terminal fonts render the Unicode marks poorly; the ASCII set keeps
// every glyph one column wide and legible.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference ignores unknown values and keeps the current set.
func applyGlyphPreference(v string) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

// glyphCheck is the mark inside "[ ]" for a tagged checkbox. Always one column.
func glyphCheck() string {
	if glyphs() == glyphSetASCII {
		return "x"
	}
	return "✓"
}

func glyphSeparator() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "│"
}

func glyphDirty() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "●"
}

func glyphCursor() string {
	if glyphs() == glyphSetASCII {
		return "_"
	}
	return "▏"
}
