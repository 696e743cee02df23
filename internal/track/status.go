package track

// Status represents the research lifecycle of a track record.
type Status string

const (
	StatusDiscovered  Status = "discovered"
	StatusResearching Status = "researching"
	StatusSolved      Status = "solved"
	StatusFailed      Status = "failed"
	StatusDuplicate   Status = "duplicate"
)

var statusTransitions = map[Status][]Status{
	StatusDiscovered:  {StatusResearching, StatusDuplicate},
	StatusResearching: {StatusSolved, StatusFailed, StatusDiscovered},
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Terminal statuses admit no transitions.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends the research lifecycle.
func (s Status) Terminal() bool {
	switch s {
	case StatusSolved, StatusFailed, StatusDuplicate:
		return true
	default:
		return false
	}
}
