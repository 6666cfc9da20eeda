package controllerImp

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"animeplan/pkg/logging"
	"animeplan/pkg/middleware"
	"animeplan/pkg/session"
	"animeplan/pkg/session/controller"
)

type SessionCtrl struct {
	agg      *session.Aggregator
	registry *session.Registry
}

func NewSessionCtrl(agg *session.Aggregator, registry *session.Registry) controller.SessionController {
	return &SessionCtrl{agg: agg, registry: registry}
}

type searchReq struct {
	Query string `json:"query"`
}

type titleReq struct {
	Title string `json:"title"`
}

func (h *SessionCtrl) Open(c echo.Context) error {
	uid := middleware.CurrentUser(c)
	id, s := h.registry.Open(c.Request().Context(), uid)
	return c.JSON(http.StatusCreated, map[string]any{"id": id, "view": s.View()})
}

func (h *SessionCtrl) View(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, s.View())
}

func (h *SessionCtrl) Search(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return writeErr(c, err)
	}
	var body searchReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	v, err := s.Search(c.Request().Context(), body.Query)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *SessionCtrl) Add(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return writeErr(c, err)
	}
	var body titleReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	v, err := s.Add(c.Request().Context(), body.Title)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *SessionCtrl) Remove(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return writeErr(c, err)
	}
	v, err := s.Remove(c.Request().Context(), titleParam(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *SessionCtrl) Toggle(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return writeErr(c, err)
	}
	v, err := s.Toggle(c.Request().Context(), titleParam(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *SessionCtrl) Close(c echo.Context) error {
	if err := h.registry.Close(c.Param("id"), middleware.CurrentUser(c)); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionCtrl) lookup(c echo.Context) (*session.Session, error) {
	return h.registry.Get(c.Param("id"), middleware.CurrentUser(c))
}

// titleParam returns the :title segment. Echo hands back raw segments only
// when the request needed a RawPath (escaped slashes and the like); otherwise
// the value is already decoded and must not be decoded again.
func titleParam(c echo.Context) string {
	raw := c.Param("title")
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if t, err := url.PathUnescape(raw); err == nil {
		return t
	}
	return raw
}

func writeErr(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrEmptyQuery), errors.Is(err, session.ErrEmptyTitle):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrClosed):
		status = http.StatusGone
	default:
		logging.Error().Err(err).Str("path", c.Path()).Msg("[session] request failed")
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
