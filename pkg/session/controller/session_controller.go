package controller

import "github.com/labstack/echo/v4"

type SessionController interface {
	Open(c echo.Context) error
	View(c echo.Context) error
	Search(c echo.Context) error
	Add(c echo.Context) error
	Remove(c echo.Context) error
	Toggle(c echo.Context) error
	Close(c echo.Context) error

	// Socket runs one session for the lifetime of a WebSocket connection.
	Socket(c echo.Context) error
}
