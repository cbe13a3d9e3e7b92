package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/core"
)

type ICEResponse struct {
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	Rooms       int    `json:"rooms"`
}

func handleICE(cfg *config.Config) gin.HandlerFunc {
	servers := cfg.WebRTCICEServers()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ICEResponse{ICEServers: servers})
	}
}

func handleRooms(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms := o.RoomList()
		if rooms == nil {
			rooms = []core.RoomInfo{}
		}
		c.JSON(http.StatusOK, rooms)
	}
}

func handleHealth(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:      "ok",
			Connections: o.Sessions.Len(),
			Rooms:       o.Registry.RoomCount(),
		})
	}
}
