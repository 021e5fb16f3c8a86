package dto

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}
