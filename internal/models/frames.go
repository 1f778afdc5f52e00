package models

/*** Live session WebSocket frames ***/

type WSFrame struct {
	Type string      `json:"type"` // "init","state","code","language","question","error"
	Data interface{} `json:"data"`
}

// InitRequest is the first frame a client sends after connecting.
type InitRequest struct {
	StreamCallID string `json:"streamCallId"`
}

// InitResponse carries the canonical snapshot the client reconciles against.
type InitResponse struct {
	Session *Session `json:"session"`
}

// CodeUpdate is a debounced publish of a participant's buffer.
type CodeUpdate struct {
	Code     string   `json:"code"`
	Language Language `json:"language"`
}

type LanguageChange struct {
	Language Language `json:"language"`
}

type QuestionChange struct {
	QuestionID string `json:"questionId"`
}
