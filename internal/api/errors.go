package api

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scicatproject/sciwyrm/pkg/models"
)

// ProblemDetails represents an RFC 7807 Problem Details response, used for
// all non-validation errors.
type ProblemDetails struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// ValidationErrorResponse is the single error shape returned for every 422:
// malformed request bodies and schema violations alike.
type ValidationErrorResponse struct {
	Message string                      `json:"message"`
	Errors  []*models.ValidationFailure `json:"errors"`
}

func (h *Handler) problem(c echo.Context, status int, title, detail string) error {
	problem := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	}
	body, err := json.Marshal(problem)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.Blob(status, "application/problem+json", body)
}

func validationError(c echo.Context, failures ...*models.ValidationFailure) error {
	message := "validation failed"
	if len(failures) > 0 {
		message = failures[0].Message
	}
	return c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
		Message: message,
		Errors:  failures,
	})
}
