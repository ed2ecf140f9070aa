package post

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrPostNotFound - id không tồn tại hoặc không đúng định dạng
	ErrPostNotFound = errors.New("post not found")

	// ErrValidation là sentinel mà mọi *ValidationError unwrap về
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCover - file upload không phải ảnh hợp lệ hoặc quá lớn
	ErrInvalidCover = errors.New("invalid cover photo")
)

// ValidationError chứa lỗi theo từng field của payload
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PersistenceError wrap lỗi record store trả về khi ghi
// Error() giữ nguyên message gốc để trả cho client
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	var persistErr *PersistenceError
	switch {
	case errors.Is(err, ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidCover):
		return http.StatusUnprocessableEntity
	case errors.As(err, &persistErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
