package disk

import "fmt"

// ConflictPolicy governs whether an existing remote file is overwritten
// by UploadOrReplace. It is a closed enum: every switch over it must
// handle all three cases.
type ConflictPolicy int

const (
	// ReplaceIfDifferent uploads only when the local MD5 differs from
	// the remote one. This is the default (zero value).
	ReplaceIfDifferent ConflictPolicy = iota
	// AlwaysReplace uploads unconditionally.
	AlwaysReplace
	// Skip never overwrites an existing remote file.
	Skip
)

func (p ConflictPolicy) String() string {
	switch p {
	case ReplaceIfDifferent:
		return "replace-if-different"
	case AlwaysReplace:
		return "always-replace"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParsePolicy converts a policy name (as used in config files and CLI
// flags) back to a ConflictPolicy. The empty string parses to the
// default policy.
func ParsePolicy(s string) (ConflictPolicy, error) {
	switch s {
	case "", "replace-if-different":
		return ReplaceIfDifferent, nil
	case "always-replace":
		return AlwaysReplace, nil
	case "skip":
		return Skip, nil
	default:
		return 0, fmt.Errorf("unknown conflict policy: %q", s)
	}
}
