package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrPostNotFound is returned when a post id does not resolve.
	ErrPostNotFound = errors.New("blog not found")
	// ErrCommentNotFound is returned when a comment does not exist on the given post.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotPostOwner is returned when a user tries to mutate a post they do not own.
	ErrNotPostOwner = errors.New("not authorized to modify this blog")
	// ErrNotCommentOwner is returned when a user tries to delete someone else's comment.
	ErrNotCommentOwner = errors.New("not authorized to delete this comment")
	// ErrMissingFields is returned when a required post field is empty.
	ErrMissingFields = errors.New("title, description, content and category are required")
	// ErrEmptyComment is returned when a comment has no text after trimming.
	ErrEmptyComment = errors.New("comment text is required")
	// ErrImageTooLarge is returned when an uploaded image exceeds the size ceiling.
	ErrImageTooLarge = errors.New("image exceeds maximum allowed size")
	// ErrNotAnImage is returned when an upload does not carry an image content type.
	ErrNotAnImage = errors.New("uploaded file is not an image")
	// ErrUploadFailed is returned when the media store rejects an upload.
	ErrUploadFailed = errors.New("image upload failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrPostNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BLOG_NOT_FOUND")
	case errors.Is(err, ErrCommentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "COMMENT_NOT_FOUND")
	case errors.Is(err, ErrNotPostOwner):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_BLOG_OWNER")
	case errors.Is(err, ErrNotCommentOwner):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_COMMENT_OWNER")
	case errors.Is(err, ErrMissingFields):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_FIELDS")
	case errors.Is(err, ErrEmptyComment):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_COMMENT")
	case errors.Is(err, ErrImageTooLarge):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "IMAGE_TOO_LARGE")
	case errors.Is(err, ErrNotAnImage):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOT_AN_IMAGE")
	case errors.Is(err, ErrUploadFailed):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "UPLOAD_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
