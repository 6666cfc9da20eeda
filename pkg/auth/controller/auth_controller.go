package controller

import "github.com/labstack/echo/v4"

type AuthController interface {
	WhoAmI(c echo.Context) error
	Logout(c echo.Context) error
}
