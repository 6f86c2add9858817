package entities

// ResultStatus is the uniform outcome taxonomy shared by every service
// operation. Callers map it to transport status codes and never inspect
// raw storage errors.
type ResultStatus string

const (
	StatusSuccess       ResultStatus = "Success"
	StatusFailed        ResultStatus = "Failed"
	StatusAlreadyExists ResultStatus = "AlreadyExists"
	StatusNotFound      ResultStatus = "NotFound"
	StatusBadRequest    ResultStatus = "BadRequest"
)

// Result wraps a service outcome. Value is meaningful only when Status is
// StatusSuccess; a successful Result with a zero Value means "no content".
type Result[T any] struct {
	Status ResultStatus
	Value  T
}

// Ok builds a successful result carrying a payload.
func Ok[T any](value T) Result[T] {
	return Result[T]{Status: StatusSuccess, Value: value}
}

// Fail builds a result with the given non-success status.
func Fail[T any](status ResultStatus) Result[T] {
	return Result[T]{Status: status}
}

// IsSuccess reports whether the operation succeeded.
func (r Result[T]) IsSuccess() bool {
	return r.Status == StatusSuccess
}
