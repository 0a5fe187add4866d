package types

// AgentResult is the reply of the host boundary to an agent prompt.
// Exactly one of Document or Error is meaningful, selected by Success.
type AgentResult struct {
	Success  bool   `json:"success"`
	Document string `json:"document,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewAgentSuccess wraps a generated document.
func NewAgentSuccess(document string) AgentResult {
	return AgentResult{Success: true, Document: document}
}

// NewAgentFailure wraps a generation failure message.
func NewAgentFailure(message string) AgentResult {
	return AgentResult{Success: false, Error: message}
}
