package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type healthStatus struct {
	Status      string    `json:"status"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

var (
	healthMutex sync.RWMutex
	startTime   = time.Now()
	version     = "1.0.0"
)

// HealthCheckHandler reports process liveness plus uptime. Monitoring polls
// this unauthenticated.
func HealthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		healthMutex.RLock()
		defer healthMutex.RUnlock()

		c.JSON(http.StatusOK, healthStatus{
			Status:      "ok",
			LastChecked: time.Now(),
			Uptime:      time.Since(startTime).String(),
			Version:     version,
		})
	}
}

func SetVersion(v string) {
	healthMutex.Lock()
	defer healthMutex.Unlock()
	version = v
}
