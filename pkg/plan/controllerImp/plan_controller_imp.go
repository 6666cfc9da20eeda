package controllerImp

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"animeplan/pkg/logging"
	"animeplan/pkg/middleware"
	"animeplan/pkg/plan/controller"
	"animeplan/pkg/plan/service"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PlanCtrl struct{ svc service.PlanService }

func NewPlanCtrl(svc service.PlanService) controller.PlanController { return &PlanCtrl{svc: svc} }

func (h *PlanCtrl) List(c echo.Context) error {
	uid := middleware.CurrentUser(c)
	items, err := h.svc.List(c.Request().Context(), uid)
	if err != nil {
		logging.Error().Err(err).Int64("user_id", uid).Msg("[plan] list failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"user_id": uid, "plan": items})
}

func (h *PlanCtrl) Export(c echo.Context) error {
	uid := middleware.CurrentUser(c)
	b, err := h.svc.ExportXLSX(c.Request().Context(), uid)
	if err != nil {
		logging.Error().Err(err).Int64("user_id", uid).Msg("[plan] export failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="anime_plan_%d.xlsx"`, uid))
	return c.Blob(http.StatusOK, xlsxMIME, b)
}
