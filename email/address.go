package email

import "regexp"

// addressPattern accepts "local@domain.tld" shaped addresses without
// whitespace. Besides the RE2 \s class it excludes the vertical tab, Unicode
// separators and the byte order mark, matching what browsers treat as
// whitespace in the same pattern.
var addressPattern = regexp.MustCompile(
	`^[^\s\x0B\p{Z}\x{FEFF}@]+@[^\s\x0B\p{Z}\x{FEFF}@]+\.[^\s\x0B\p{Z}\x{FEFF}@]+$`,
)

// IsValidAddress performs a basic syntactic check of an email address. It
// doesn't parse RFC 5322 addresses; it only rejects input that can't
// plausibly be delivered to.
func IsValidAddress(address string) bool {
	return addressPattern.MatchString(address)
}
