package roomhandler

import (
	"net/http"
	"time"

	"chathubgo/internal/chat"

	"github.com/gin-gonic/gin"
)

// Handler serves the read-only statistics surface. Every endpoint reads
// registry snapshots and never mutates room state.
type Handler struct {
	registry *chat.Registry
	svc      chat.IChatService
	started  time.Time
}

func New(registry *chat.Registry, svc chat.IChatService) *Handler {
	return &Handler{
		registry: registry,
		svc:      svc,
		started:  time.Now(),
	}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/api/rooms", h.list)
	r.GET("/api/rooms/:id", h.info)
	r.GET("/health", h.health)
}

// @Summary		List rooms
// @Description	Aggregate statistics over every live room.
// @Tags			Rooms
// @Success		200	{object}	RoomsResponse
// @Router			/api/rooms [get]
func (h *Handler) list(c *gin.Context) {
	stats := h.registry.Stats()
	users := 0
	for _, r := range stats {
		users += r.UserCount
	}
	c.JSON(http.StatusOK, RoomsResponse{
		Rooms:      stats,
		TotalRooms: len(stats),
		TotalUsers: users,
	})
}

// @Summary		Get room details
// @Description	Single room detail including members and the last 10 messages.
// @Tags			Rooms
// @Param			id	path		string	true	"Room ID"	default(lobby)
// @Success		200	{object}	chat.RoomDetail
// @Failure		404	{object}	ErrorResponse
// @Router			/api/rooms/{id} [get]
func (h *Handler) info(c *gin.Context) {
	detail, err := h.registry.RoomDetail(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// @Summary		Health check
// @Description	Process liveness plus aggregate room and connection counts.
// @Tags			Health
// @Success		200	{object}	HealthResponse
// @Router			/health [get]
func (h *Handler) health(c *gin.Context) {
	rooms, _, messages := h.registry.Totals()
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Rooms:         rooms,
		Connections:   h.svc.SessionCount(),
		Messages:      messages,
	})
}
