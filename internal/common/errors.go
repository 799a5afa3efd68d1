package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// CodeConfigError is reported when configuration is invalid.
const CodeConfigError = constants.CodeConfigError

// AppError carries one of the constants.Code* values through the pipeline.
// Message is user facing; Cause keeps the chain for errors.Is and logs.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNoText            = errors.New("no text extracted")
	ErrValidation        = errors.New("validation failed")
)

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// WrapError prefixes err with message; a nil err stays nil.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CodeOf returns the code of the first AppError in err's chain.
func CodeOf(err error) (string, bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "", false
	}
	return appErr.Code, true
}

// ExtractionError is raised at the strategy boundary when a supplier
// strategy fails in a way it could not express as a missing field.
type ExtractionError struct {
	Supplier constants.Supplier
	Filename string
	Cause    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s (supplier %s): %v", e.Filename, e.Supplier, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

var statusByCode = map[string]codes.Code{
	constants.CodeFileNotFound:        codes.NotFound,
	constants.CodeUnsupportedFileType: codes.InvalidArgument,
	constants.CodeInvalidArgument:     codes.InvalidArgument,
	constants.CodeConfigError:         codes.FailedPrecondition,
}

// ToStatus converts err into a gRPC status. Errors that already carry a
// status pass through; AppErrors map by code; everything else is Internal
// with message, so causes are not leaked to clients.
func ToStatus(err error, message string) error {
	if err == nil {
		return nil
	}
	if s, ok := status.FromError(err); ok {
		return s.Err()
	}
	if code, ok := CodeOf(err); ok {
		if c, known := statusByCode[code]; known {
			return status.Error(c, err.Error())
		}
	}
	return status.Error(codes.Internal, message)
}

func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func PermissionDeniedError(message string) error {
	return status.Error(codes.PermissionDenied, message)
}

func FailedPreconditionError(message string) error {
	return status.Error(codes.FailedPrecondition, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}
