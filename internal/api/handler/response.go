package handler

import (
	"github.com/labstack/echo/v4"
)

// Response is the JSON envelope shared by every endpoint. Failures are
// rendered by the API error handler with Success=false.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Data is a named payload map, e.g. {"user": ...}.
type Data map[string]interface{}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}
