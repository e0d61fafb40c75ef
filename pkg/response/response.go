package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
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

// Generate is the fixed response shape of the card generation endpoint:
// { success, file } on success, { success, message } on failure.
type Generate struct {
	Success bool   `json:"success"`
	File    string `json:"file,omitempty"`
	Message string `json:"message,omitempty"`
}

// GenerateSuccess wraps a generated file path
func GenerateSuccess(file string) Generate {
	return Generate{Success: true, File: file}
}

// GenerateError wraps a generation failure message
func GenerateError(message string) Generate {
	return Generate{Success: false, Message: message}
}
