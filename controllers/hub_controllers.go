package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/satriajati/dinepos/hub"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// DisplayHandler upgrades a station display (kitchen, bar, floor) to a
// websocket connection fed by the hub.
func DisplayHandler(c *gin.Context) {
	station := c.Param("station")
	if station != "kitchen" && station != "bar" && station != "floor" {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	hub.RegisterClient(ws, station)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	hub.UnregisterClient(ws)
}
