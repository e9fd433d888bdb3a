package model

import "strings"

// Structural bytes of the save format. Names may not contain any of them.
const (
	RecordSep  byte = 0x30 // ends a category record or the filename section
	UnitSep    byte = 0x31 // precedes each checkbox name and each filename after the first
	HeaderLead byte = 0x89
)

// ValidateName checks a category or checkbox name.
//
// Note that 0x30 and 0x31 are the ASCII digits '0' and '1'.
func ValidateName(kind, name string) error {
	if name == "" {
		return &InvalidNameError{Kind: kind, Reason: "must not be empty"}
	}
	if strings.IndexByte(name, RecordSep) >= 0 || strings.IndexByte(name, UnitSep) >= 0 {
		return &InvalidNameError{Kind: kind, Name: name, Reason: "must not contain '0' or '1' (reserved delimiter bytes)"}
	}
	if strings.IndexByte(name, HeaderLead) >= 0 {
		return &InvalidNameError{Kind: kind, Name: name, Reason: "must not contain byte 0x89"}
	}
	return nil
}

// ValidatePath checks a file path before it is stored. The filename section is
// delimiter-based like the category section, so the same delimiter bytes are
// rejected; 0x89 is allowed because it only matters at the start of the stream.
func ValidatePath(path string) error {
	if path == "" {
		return &InvalidNameError{Kind: "path", Reason: "must not be empty"}
	}
	if strings.IndexByte(path, RecordSep) >= 0 || strings.IndexByte(path, UnitSep) >= 0 {
		return &InvalidNameError{Kind: "path", Name: path, Reason: "must not contain '0' or '1' (reserved delimiter bytes)"}
	}
	return nil
}
