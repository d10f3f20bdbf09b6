package contract

// InvokeRequest is one conversational turn. Answers may carry keys in either
// canonical or dotted-alias form; unknown keys are tolerated.
type InvokeRequest struct {
	SessionID string         `json:"session_id"`
	Prompt    string         `json:"prompt"`
	Answers   map[string]any `json:"answers,omitempty"`
}

// ProgressInfo summarizes questionnaire progress for the caller.
type ProgressInfo struct {
	CurrentSection    string   `json:"current_section"`
	PercentComplete   float64  `json:"percent_complete"`
	CompletedSections []string `json:"completed_sections"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// AgentResponse is the structured reply for every turn, including failed
// ones: callers always get a message and never a bare error.
type AgentResponse struct {
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Answers  map[string]any `json:"answers,omitempty"`
	Progress ProgressInfo   `json:"progress"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Tool is one entry of the gateway's tool listing. InputSchema carries the
// gateway's JSON schema verbatim.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// CompletionRequest is the input to the opaque model capability.
type CompletionRequest struct {
	SystemPrompt string
	UserMessage  string
	SessionState map[string]any
	Tools        []Tool
}
