package serverutils

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Response is the envelope every endpoint answers with. It mirrors the analysis
// service so views handle both the same way.
type Response[T any] struct {
	Status  string `json:"status"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

// ErrorResponse uses "fail" for client errors and "error" for everything else.
func ErrorResponse(code int, message string) Response[any] {
	status := StatusError
	if code >= 400 && code < 500 {
		status = StatusFail
	}
	return Response[any]{
		Status:  status,
		Code:    code,
		Message: message,
	}
}
