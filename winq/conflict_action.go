package winq

// ConflictAction is the resolution algorithm of an ON CONFLICT clause or of
// INSERT OR / UPDATE OR.
type ConflictAction int

const (
	ConflictNone ConflictAction = iota
	ConflictReplace
	ConflictRollback
	ConflictAbort
	ConflictFail
	ConflictIgnore
)

// String returns the SQL keyword, empty for ConflictNone.
func (a ConflictAction) String() string {
	switch a {
	case ConflictReplace:
		return "REPLACE"
	case ConflictRollback:
		return "ROLLBACK"
	case ConflictAbort:
		return "ABORT"
	case ConflictFail:
		return "FAIL"
	case ConflictIgnore:
		return "IGNORE"
	default:
		return ""
	}
}

func (a ConflictAction) onConflict() string {
	if a == ConflictNone {
		return ""
	}
	return " ON CONFLICT " + a.String()
}
