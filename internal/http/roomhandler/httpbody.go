package roomhandler

import "chathubgo/internal/chat"

type RoomsResponse struct {
	Rooms      []chat.RoomStats `json:"rooms"`
	TotalRooms int              `json:"total_rooms"`
	TotalUsers int              `json:"total_users"`
} // @name RoomsResponse

type HealthResponse struct {
	Status        string `json:"status" example:"ok"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Rooms         int    `json:"rooms"`
	Connections   int    `json:"connections"`
	Messages      int    `json:"messages"`
} // @name HealthResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
