package roomhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chathubgo/internal/chat"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticConn struct {
	id string
}

func (c staticConn) ID() string       { return c.id }
func (c staticConn) Push(string, any) {}

func setupRouter(t *testing.T) (*gin.Engine, chat.IChatService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := chat.NewRegistry(chat.RegistryOptions{})
	svc := chat.NewService(reg, chat.Options{})

	engine := gin.New()
	New(reg, svc).Register(engine)
	return engine, svc
}

func doGet(t *testing.T, engine *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestListRooms(t *testing.T) {
	engine, svc := setupRouter(t)
	require.NoError(t, svc.Join(staticConn{id: "c1"}, "alice", "lobby"))
	require.NoError(t, svc.Join(staticConn{id: "c2"}, "bob", "den"))

	rec := doGet(t, engine, "/api/rooms")
	require.Equal(t, http.StatusOK, rec.Code)

	var body RoomsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalRooms)
	assert.Equal(t, 2, body.TotalUsers)
	require.Len(t, body.Rooms, 2)
	assert.Equal(t, "den", body.Rooms[0].ID)
	assert.Equal(t, "lobby", body.Rooms[1].ID)
}

func TestRoomDetail(t *testing.T) {
	engine, svc := setupRouter(t)
	a := staticConn{id: "c1"}
	require.NoError(t, svc.Join(a, "alice", "lobby"))
	require.NoError(t, svc.PostMessage(a, "alice", "hello"))

	rec := doGet(t, engine, "/api/rooms/lobby")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail chat.RoomDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "lobby", detail.ID)
	assert.Equal(t, []string{"alice"}, detail.Users)
	assert.Equal(t, 2, detail.MessageCount)
	require.Len(t, detail.Recent, 2)
	assert.Equal(t, "hello", detail.Recent[1].Body)
}

func TestRoomDetailNotFound(t *testing.T) {
	engine, _ := setupRouter(t)

	rec := doGet(t, engine, "/api/rooms/ghost")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "not found")
}

func TestHealth(t *testing.T) {
	engine, svc := setupRouter(t)
	require.NoError(t, svc.Join(staticConn{id: "c1"}, "alice", "lobby"))

	rec := doGet(t, engine, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.Rooms)
	assert.Equal(t, 1, body.Connections)
	assert.Equal(t, 1, body.Messages)
}
