package wsm

import "fmt"

// FormatVersion formats a version as "MM.mm": major right-aligned and
// minor left-aligned, both in width 2. Wider numbers are kept in full.
func FormatVersion(major, minor int) string {
	return fmt.Sprintf("%2d.%-2d", major, minor)
}

// APIVersion reports the API version of the bridge.
func (b *Bridge) APIVersion() string {
	return FormatVersion(b.major, b.minor)
}
