package models

// ErrorResponse is the standard error envelope for API responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SessionsResponse struct {
	Total int       `json:"total"`
	Items []Session `json:"items"`
}

type QuestionsResponse struct {
	Total int        `json:"total"`
	Items []Question `json:"items"`
}

// SweepResponse reports how many scheduled sessions a sweep marked missed.
type SweepResponse struct {
	Transitioned int `json:"transitioned"`
}
