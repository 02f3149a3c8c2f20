package errors

import "net/http"

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeInvalidAction      Code = "INVALID_ACTION"
	CodeCatalogMiss        Code = "CATALOG_MISS"
	CodeSkillParseFailure  Code = "SKILL_PARSE_FAILURE"
	CodeInvariantViolation Code = "INVARIANT_VIOLATION"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeInternal           Code = "INTERNAL"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// HTTPStatus returns the corresponding HTTP status code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidAction:
		return http.StatusConflict
	case CodeInvalidArgument, CodeSkillParseFailure:
		return http.StatusBadRequest
	case CodeNotFound, CodeCatalogMiss:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
