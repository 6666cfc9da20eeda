package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"animeplan/entities"
	"animeplan/pkg/session"
)

const (
	// UserCookie remembers the resolved user between requests.
	UserCookie = "ANIME_UID"
	userCtxKey = "user_id"
)

// UserID resolves the caller from a deep link ("...user_id=<id>") and
// remembers it in a cookie so follow-up API calls without the link keep the
// same identity. The cookie is only read when the URL has no user_id token;
// a malformed token is the guest. Requests with neither are the guest.
func UserID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := entities.GuestUserID
			if id, present := session.LookupUserID(c.Request().RequestURI); present {
				// A link that names a user always wins, a malformed one as guest.
				uid = id
				if id != entities.GuestUserID {
					c.SetCookie(&http.Cookie{Name: UserCookie, Value: strconv.FormatInt(id, 10), Path: "/", HttpOnly: true})
				}
			} else if ck, err := c.Cookie(UserCookie); err == nil {
				if v, err := strconv.ParseInt(ck.Value, 10, 64); err == nil {
					uid = v
				}
			}
			c.Set(userCtxKey, uid)
			return next(c)
		}
	}
}

// CurrentUser returns the id set by UserID, or the guest id.
func CurrentUser(c echo.Context) int64 {
	if v, ok := c.Get(userCtxKey).(int64); ok {
		return v
	}
	return entities.GuestUserID
}
