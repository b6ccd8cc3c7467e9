package response

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Envelope struct {
	Success bool        `json:"success"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Error(code, message string, details interface{}) Envelope {
	return Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// ErrorWithData keeps a payload next to the error, e.g. the last good feed state.
func ErrorWithData(code, message string, data interface{}) Envelope {
	env := Error(code, message, nil)
	env.Data = data
	return env
}
