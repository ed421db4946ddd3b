package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Every response carries the {success, message?, ...} envelope the frontend expects.

// Envelope is the base response shape. Extra payload fields ride alongside it
// via the map helpers below.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TokenErrorResponse adds the machine-readable code used by token failures.
type TokenErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func SendSuccess(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: true, Message: message})
}

// SendData merges payload fields into a success envelope.
func SendData(c echo.Context, status int, message string, payload map[string]interface{}) error {
	body := map[string]interface{}{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

func SendError(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}

// SendTokenError is used by the auth middleware for token-related failures.
func SendTokenError(c echo.Context, status int, message, code string) error {
	return c.JSON(status, TokenErrorResponse{Success: false, Message: message, Code: code})
}

func SendValidationError(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, message)
}

func SendServerError(c echo.Context, message string) error {
	return SendError(c, http.StatusInternalServerError, message)
}
