package store

// Status is the save indicator state.
type Status int

const (
	StatusIdle Status = iota
	StatusSaving
	StatusSaved
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Label is the text the save indicator shows.
func (s Status) Label() string {
	switch s {
	case StatusSaving:
		return "Saving..."
	case StatusSaved:
		return "Saved"
	case StatusError:
		return "Error saving"
	default:
		return ""
	}
}

// StatusFunc observes save indicator changes. err is the failure behind
// [StatusError] and nil otherwise.
type StatusFunc func(status Status, err error)

type statusEvent struct {
	status Status
	err    error
}
