package kernel

import "strings"

// Name is the display name of a catalog entry. It is stored exactly as given:
// no trimming, no case normalization.
type Name string

// NewName returns a Name, or a value.is.invalid error when raw is empty or
// contains only whitespace.
func NewName(raw string) (Name, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ValueInvalid("name")
	}
	return Name(raw), nil
}

// Equal is exact, case-sensitive comparison. Duplicate detection uses the
// case-insensitive policies in duplicate.go instead.
func (n Name) Equal(other Name) bool { return n == other }

// String returns the underlying string value.
func (n Name) String() string { return string(n) }
