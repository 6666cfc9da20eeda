package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

// Upstream is a remote dependency guarded by a circuit breaker.
type Upstream interface {
	Name() string
	State() string
}

type HealthCtrl struct {
	db        *gorm.DB
	upstreams []Upstream
}

func NewHealthCtrl(db *gorm.DB, upstreams ...Upstream) *HealthCtrl {
	return &HealthCtrl{db: db, upstreams: upstreams}
}

// Health is 503 only when the database is unreachable. An open upstream
// breaker degrades views but the service keeps working.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK := true
	dbErr := ""
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			dbOK = false
			dbErr = "db.DB(): " + err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbOK = false
			dbErr = "ping: " + err.Error()
		}
	} else {
		dbOK = false
		dbErr = "gorm db is nil"
	}

	type sub struct {
		OK    bool   `json:"ok"`
		Err   string `json:"err,omitempty"`
		State string `json:"state,omitempty"`
	}

	checks := map[string]any{"database": sub{OK: dbOK, Err: dbErr}}
	degraded := false
	for _, u := range h.upstreams {
		st := u.State()
		ok := st != "open"
		degraded = degraded || !ok
		checks["upstream:"+u.Name()] = sub{OK: ok, State: st}
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}
	resp := map[string]any{
		"status":     map[string]any{"ok": dbOK, "degraded": degraded},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     checks,
		"time":       time.Now().Format(time.RFC3339),
	}
	return c.JSON(status, resp)
}
