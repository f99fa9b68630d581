package model

// ChatTurn is one (user message, agent response) pair in a thread transcript.
type ChatTurn struct {
	UserMessage   string `json:"user_message"`
	AgentResponse string `json:"agent_response"`
}
