package response

// FieldError points a form UI at the offending input
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Response represents a standard API response format
type Response struct {
	Status     string       `json:"status"`      // "success" or "error"
	StatusCode int          `json:"status_code"` // HTTP status code
	Data       interface{}  `json:"data,omitempty"`
	Error      string       `json:"error,omitempty"`
	Fields     []FieldError `json:"fields,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// ValidationError returns an error response carrying a field-indexed error list
func ValidationError(statusCode int, err string, fields []FieldError) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
		Fields:     fields,
	}
}
