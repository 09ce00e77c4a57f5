package model

// Response is the JSON envelope shared by the API and the rate limiter.
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

func ErrorResponse(message, errMsg string) Response {
	return Response{Error: &errMsg, Message: message}
}

func SuccessResponse(data interface{}) Response {
	return Response{Data: data, Message: "Success"}
}
