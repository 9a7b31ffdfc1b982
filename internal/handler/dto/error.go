package dto

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields,omitempty"`
}

// ListResponse wraps a collection.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}
