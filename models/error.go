package models

// ErrorMessageResponse is the body shape written by config.ErrorStatus:
// the message and the underlying error joined into one response string
type ErrorMessageResponse struct {
	Response string `json:"response"`
}

// MessageResponse is a plain success acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthCheckResponse returns the health check response
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
