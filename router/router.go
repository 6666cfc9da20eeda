package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"animeplan/pkg/middleware"
)

func New(
	e *echo.Echo,
	sessionCtrl interface {
		Open(echo.Context) error
		View(echo.Context) error
		Search(echo.Context) error
		Add(echo.Context) error
		Remove(echo.Context) error
		Toggle(echo.Context) error
		Close(echo.Context) error
		Socket(echo.Context) error
	},
	planCtrl interface {
		List(echo.Context) error
		Export(echo.Context) error
	},
	authCtrl interface {
		WhoAmI(echo.Context) error
		Logout(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("", middleware.UserID())
	api.GET("/whoami", authCtrl.WhoAmI)
	api.POST("/logout", authCtrl.Logout)

	// One session per socket; the deep link may arrive on this URL.
	api.GET("/ws", sessionCtrl.Socket)

	s := api.Group("/api/sessions")
	s.POST("", sessionCtrl.Open)
	s.GET("/:id", sessionCtrl.View)
	s.DELETE("/:id", sessionCtrl.Close)
	s.POST("/:id/search", sessionCtrl.Search)
	s.POST("/:id/plan", sessionCtrl.Add)
	s.DELETE("/:id/plan/:title", sessionCtrl.Remove)
	s.POST("/:id/plan/:title/toggle", sessionCtrl.Toggle)

	api.GET("/api/plan", planCtrl.List)
	api.GET("/api/plan/export", planCtrl.Export)
	return e
}
