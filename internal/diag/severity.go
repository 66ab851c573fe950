package diag

// Severity defines the importance of a diagnostic. Exactly four kinds exist;
// policy beyond that (promotion, suppression) belongs to callers.
type Severity uint8

const (
	// SevError is for diagnostics that make the input unusable.
	SevError Severity = iota
	// SevWarning is for suspicious but acceptable input.
	SevWarning
	// SevNote attaches secondary context to another diagnostic.
	SevNote
	// SevRemark carries optional commentary, e.g. optimization reports.
	SevRemark
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevNote:
		return "note"
	case SevRemark:
		return "remark"
	}
	return "unknown"
}
