package types

// Mode is the omnibar input mode.
type Mode string

const (
	ModeURL    Mode = "url"    // ModeURL treats input as an address, guessing searches heuristically.
	ModeSearch Mode = "search" // ModeSearch sends input to the search engine.
	ModeAgent  Mode = "agent"  // ModeAgent sends input to the app generator.
)

// Placeholder returns the omnibar hint shown for the mode.
func (m Mode) Placeholder() string {
	switch m {
	case ModeSearch:
		return "Search Google..."
	case ModeAgent:
		return "Ask the agent... (e.g., create tic tac toe app)"
	default:
		return "Type URL or agent/search command..."
	}
}

// ActionLabel returns the label of the submit control for the mode.
func (m Mode) ActionLabel() string {
	switch m {
	case ModeSearch:
		return "Search"
	case ModeAgent:
		return "Ask Agent"
	default:
		return "Go"
	}
}
