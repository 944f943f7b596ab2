package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// SuccessResponse writes the payload as-is with 200.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// CreatedResponse writes the payload as-is with 201.
func CreatedResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// BadRequestResponse writes a 400 with an error message.
func BadRequestResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorBody{Error: message})
}

// NotFoundResponse writes a 404 with an error message.
func NotFoundResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, ErrorBody{Error: message})
}

// InternalServerErrorResponse writes a generic 500. Internal detail is never
// leaked to the caller.
func InternalServerErrorResponse(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, ErrorBody{Error: "Internal Server Error"})
}

// AppErrorResponse maps an error to the wire: AppError status and message for
// expected failures, generic 500 for everything else.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, ErrorBody{Error: appErr.Message})
	}
	return InternalServerErrorResponse(c)
}
