package credential

import "strings"

const (
	maskPrefixLen = 8
	maskSuffixLen = 4
)

// Mask hides the middle of a credential for display. Values too short to
// keep a prefix and suffix are fully starred.
func Mask(credential string) string {
	if len(credential) <= maskPrefixLen+maskSuffixLen {
		return strings.Repeat("*", len(credential))
	}
	return credential[:maskPrefixLen] + "..." + credential[len(credential)-maskSuffixLen:]
}
