package version

import (
	"fmt"
)

// Azureus-style version digit: 0-9, then A-Z for 10 through 35.
func versionDigit(v int) byte {
	switch {
	case v < 0:
		panic("negative version number in fingerprint")
	case v < 10:
		return byte('0' + v)
	case v < 36:
		return byte('A' + (v - 10))
	default:
		panic(fmt.Sprintf("version number %d too large for fingerprint", v))
	}
}

// GenerateFingerprint builds the 8 byte Azureus-style client prefix for peer IDs (BEP 20). Names
// shorter than two bytes are replaced with "--", longer ones are truncated.
//
// Example: GenerateFingerprint("LT", 2, 1, 0, 0) → "-LT2100-"
func GenerateFingerprint(name string, major, minor, revision, tag int) string {
	if len(name) < 2 {
		name = "--"
	}
	b := []byte{
		'-',
		name[0],
		name[1],
		versionDigit(major),
		versionDigit(minor),
		versionDigit(revision),
		versionDigit(tag),
		'-',
	}
	return string(b)
}
