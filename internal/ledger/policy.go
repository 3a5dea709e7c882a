package ledger

import (
	"fmt"
)

// LockedPolicy controls what happens to records naming a client whose
// account has been locked by a chargeback. The upstream behavior of a locked
// account is not fully specified, so the choice is an explicit configuration
// point rather than a hard-coded guess.
type LockedPolicy string

const (
	// LockedRejectAll drops every further record for a locked client. This
	// is the default: a locked account is frozen.
	LockedRejectAll LockedPolicy = "reject"

	// LockedApplyAll keeps applying records to a locked account as if it
	// were unlocked.
	LockedApplyAll LockedPolicy = "apply"
)

func ParseLockedPolicy(s string) (LockedPolicy, error) {
	switch LockedPolicy(s) {
	case LockedRejectAll, LockedApplyAll:
		return LockedPolicy(s), nil
	}
	return "", fmt.Errorf("unknown locked policy: %q", s)
}
