package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"animeplan/entities"
	"animeplan/pkg/auth/controller"
	"animeplan/pkg/middleware"
)

type authCtrl struct{}

func NewAuthController() controller.AuthController { return &authCtrl{} }

func (h *authCtrl) WhoAmI(c echo.Context) error {
	uid := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, map[string]any{"user_id": uid, "guest": uid == entities.GuestUserID})
}

// Logout forgets the remembered user; the next request is the guest unless it
// carries a deep link again.
func (h *authCtrl) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: middleware.UserCookie, Value: "", Path: "/", MaxAge: -1})
	return c.NoContent(http.StatusNoContent)
}
