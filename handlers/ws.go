package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/dompetku/dompetku-api/middleware"
	"github.com/dompetku/dompetku-api/models"
)

// WSHandler pushes budget alerts to connected clients over websocket.
// Connections are keyed by user id so alerts only reach their owner.
type WSHandler struct {
	m *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		if userID, ok := s.Get("user_id"); ok {
			log.Printf("📨 Alert stream connected: %v", userID)
		}
	})

	return &WSHandler{m: m}
}

// Serve upgrades the request. AuthMiddleware has already validated the token
// (header or ?token= query) and set the user id on the context.
func (h *WSHandler) Serve(c *gin.Context) {
	userID := middleware.GetUserID(c)

	err := h.m.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open websocket"})
	}
}

// BroadcastAlerts sends freshly created alerts to the owning user's open
// sessions. Delivery is best-effort.
func (h *WSHandler) BroadcastAlerts(userID string, alerts []models.BudgetAlert) {
	for _, alert := range alerts {
		payload, err := json.Marshal(gin.H{"type": "budget_alert", "alert": alert})
		if err != nil {
			log.Printf("⚠️ Failed to encode alert %s: %v", alert.ID, err)
			continue
		}

		err = h.m.BroadcastFilter(payload, func(s *melody.Session) bool {
			id, ok := s.Get("user_id")
			return ok && id == userID
		})
		if err != nil {
			log.Printf("⚠️ Failed to broadcast alert %s: %v", alert.ID, err)
		}
	}
}

// Close shuts the websocket hub down during server shutdown.
func (h *WSHandler) Close() error {
	return h.m.Close()
}
