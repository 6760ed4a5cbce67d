package websockets

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockConnectionManager struct {
	mock.Mock
}

func (m *mockConnectionManager) AddConnection(ctx context.Context, connectionID string) error {
	ret := m.Called(ctx, connectionID)
	return ret.Error(0)
}

func (m *mockConnectionManager) RemoveConnection(ctx context.Context, connectionID string) error {
	ret := m.Called(ctx, connectionID)
	return ret.Error(0)
}

func wsRequest(routeKey, connectionID string) events.APIGatewayWebsocketProxyRequest {
	return events.APIGatewayWebsocketProxyRequest{
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{
			RouteKey:     routeKey,
			ConnectionID: connectionID,
		},
	}
}

func TestHandleConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Registers the connection", func(t *testing.T) {
		manager := new(mockConnectionManager)
		manager.On("AddConnection", ctx, "conn-1").Return(nil)

		handler := NewHandler(manager)
		resp, err := handler.HandleConnect(ctx, wsRequest("$connect", "conn-1"))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		manager.AssertExpectations(t)
	})

	t.Run("Registry fault", func(t *testing.T) {
		manager := new(mockConnectionManager)
		manager.On("AddConnection", ctx, "conn-1").Return(errors.New("throttled"))

		handler := NewHandler(manager)
		resp, err := handler.HandleConnect(ctx, wsRequest("$connect", "conn-1"))
		assert.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestHandleDisconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Unregisters the connection", func(t *testing.T) {
		manager := new(mockConnectionManager)
		manager.On("RemoveConnection", ctx, "conn-1").Return(nil)

		handler := NewHandler(manager)
		resp, err := handler.HandleDisconnect(ctx, wsRequest("$disconnect", "conn-1"))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		manager.AssertExpectations(t)
	})

	t.Run("Registry fault", func(t *testing.T) {
		manager := new(mockConnectionManager)
		manager.On("RemoveConnection", ctx, "conn-1").Return(errors.New("throttled"))

		handler := NewHandler(manager)
		resp, err := handler.HandleDisconnect(ctx, wsRequest("$disconnect", "conn-1"))
		assert.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestHandleDefault(t *testing.T) {
	handler := NewHandler(new(mockConnectionManager))
	resp, err := handler.HandleDefault(context.Background(), wsRequest("$default", "conn-1"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

// signalingManager reports lifecycle events over channels so the test can wait
// for the handler's goroutine to reach them.
type signalingManager struct {
	added   chan string
	removed chan string
}

func (m *signalingManager) AddConnection(ctx context.Context, connectionID string) error {
	m.added <- connectionID
	return nil
}

func (m *signalingManager) RemoveConnection(ctx context.Context, connectionID string) error {
	m.removed <- connectionID
	return nil
}

func TestServeHTTPLifecycle(t *testing.T) {
	manager := &signalingManager{
		added:   make(chan string, 1),
		removed: make(chan string, 1),
	}
	handler := NewHandler(manager)

	server := httptest.NewServer(handler)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	var connectionID string
	select {
	case connectionID = <-manager.added:
		assert.NotEmpty(t, connectionID)
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not registered")
	}

	require.NoError(t, conn.Close())

	select {
	case removedID := <-manager.removed:
		assert.Equal(t, connectionID, removedID)
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not unregistered")
	}
}
