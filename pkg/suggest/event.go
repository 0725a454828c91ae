package suggest

// Event is a notification emitted by a controller.
type Event int

const (
	EventRequest Event = iota
	EventOpen
	EventClose
	EventSelected
)

func (e Event) String() string {
	switch e {
	case EventRequest:
		return "suggestRequest"
	case EventOpen:
		return "suggestOpen"
	case EventClose:
		return "suggestClose"
	case EventSelected:
		return "suggestSelected"
	default:
		return "unknown"
	}
}

// Selection describes a committed candidate.
type Selection struct {
	// Query is the text the user had typed before committing.
	Query     string
	Value     string
	Index     int
	Candidate Candidate
}
