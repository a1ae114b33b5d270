package realtime

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kree/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopHandler struct{}

func (nopHandler) HandleEvent(c *Client, env Envelope) {}

func newTestGateway(auth AuthFunc) (*Gateway, *httptest.Server) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zap.NewNop())
	gw := NewGateway(hub, auth, nopHandler{}, zap.NewNop())

	router := gin.New()
	router.GET("/ws", gw.ServeWS)
	return gw, httptest.NewServer(router)
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func TestServeWSRefusesMissingToken(t *testing.T) {
	_, srv := newTestGateway(func(token string) (*models.User, error) {
		t.Fatal("auth must not run without a token")
		return nil, nil
	})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServeWSRefusesInvalidTokenBeforeUpgrade(t *testing.T) {
	gw, srv := newTestGateway(func(token string) (*models.User, error) {
		return nil, errors.New("token is expired")
	})
	defer srv.Close()

	// A websocket dial gets a plain 401, never a handshake.
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=stale"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// No room membership was created for the refused session.
	assert.Equal(t, 0, gw.Hub().RoomSize(PersonalRoom(models.RoleCustomer, "cust-1")))
}

func TestServeWSJoinsPersonalRoom(t *testing.T) {
	account := &models.User{ID: "cust-1", Role: models.RoleCustomer, FirstName: "Yasmine"}
	gw, srv := newTestGateway(func(token string) (*models.User, error) {
		if token != "good-token" {
			return nil, errors.New("unknown token")
		}
		return account, nil
	})
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=good-token"), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	room := PersonalRoom(models.RoleCustomer, "cust-1")
	require.Eventually(t, func() bool {
		return gw.Hub().RoomSize(room) == 1
	}, time.Second, 10*time.Millisecond)

	// Events emitted to the personal room arrive over the wire.
	gw.Hub().Emit(room, EventBookingCreated, BookingCreatedPayload{BookingID: "bk-1"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var ev struct {
		Event string `json:"event"`
		Data  struct {
			BookingID string `json:"bookingId"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventBookingCreated, ev.Event)
	assert.Equal(t, "bk-1", ev.Data.BookingID)
}

func TestServeWSBearerHeaderFallback(t *testing.T) {
	account := &models.User{ID: "ag-1", Role: models.RoleAgency, AgencyName: "Atlas Cars"}
	gw, srv := newTestGateway(func(token string) (*models.User, error) {
		if token != "header-token" {
			return nil, errors.New("unknown token")
		}
		return account, nil
	})
	defer srv.Close()

	header := http.Header{"Authorization": []string{"Bearer header-token"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return gw.Hub().RoomSize(PersonalRoom(models.RoleAgency, "ag-1")) == 1
	}, time.Second, 10*time.Millisecond)
}
