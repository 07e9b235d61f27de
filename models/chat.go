package models

// ChatMessage is one turn of a session-scoped assistant transcript
type ChatMessage struct {
	Role string `json:"role"` // "user" or "bot"
	Text string `json:"text"`
}

// ChatAskRequest is the payload for an assistant question
type ChatAskRequest struct {
	Message string `json:"message"`
}

// ChatAskResponse carries the assistant reply
type ChatAskResponse struct {
	Response string `json:"response"`
}

// ChatHistoryResponse carries the full session transcript
type ChatHistoryResponse struct {
	History []ChatMessage `json:"history"`
}
