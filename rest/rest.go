package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"tavern.club/faro/game"
)

var restLogger = log.With().Str("logger_name", "rest::rest").Logger()

var manager *game.Manager

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RunRestServer serves the read-only operational surface: health,
// table snapshots, lifetime stats and prometheus metrics.
func RunRestServer(gameManager *game.Manager, port int) {
	manager = gameManager
	r := gin.Default()

	r.GET("/ready", ready)
	r.GET("/tables", listTables)
	r.GET("/tables/:id", getTable)
	r.GET("/stats", getStats)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	restLogger.Info().Msgf("REST server listening on :%d", port)
	r.Run(fmt.Sprintf(":%d", port))
}

func ready(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func listTables(c *gin.Context) {
	c.JSON(http.StatusOK, manager.TableSnapshots())
}

func getTable(c *gin.Context) {
	id := c.Param("id")
	t := manager.FindTable(id)
	if t == nil {
		c.IndentedJSON(http.StatusNotFound, appError{
			Code:    http.StatusNotFound,
			Message: fmt.Sprintf("Table [%s] is not found", id),
		})
		return
	}
	c.JSON(http.StatusOK, t.Snapshot())
}

func getStats(c *gin.Context) {
	addr := c.Query("addr")
	if addr == "" {
		c.String(400, "Failed to read addr param from stats endpoint")
		return
	}
	stats, err := manager.Stats(addr)
	if err != nil {
		restLogger.Error().Msgf("Failed to load stats for [%s]. Error: %v", addr, err)
		c.IndentedJSON(http.StatusInternalServerError, appError{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}
