package controller

import "github.com/labstack/echo/v4"

type PlanController interface {
	List(c echo.Context) error
	Export(c echo.Context) error
}
