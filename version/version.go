// Package version holds the Rain binary format versions. A program image
// declares its format with a single byte; the byte maps to a human-readable
// semantic version used only in diagnostics.
package version

// ByteVersion is the format version the machine executes.
const ByteVersion byte = 1

var versions = map[byte]string{
	1: "0.1.0",
}

// Versions returns the table mapping supported format-version bytes to
// their semantic versions. The table is static read-only data; callers
// must not modify it.
func Versions() map[byte]string {
	return versions
}

// Lookup reports the semantic version for a format-version byte.
func Lookup(b byte) (string, bool) {
	v, ok := versions[b]
	return v, ok
}
