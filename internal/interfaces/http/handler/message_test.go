package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/backoffice/internal/domain/notification"
	"github.com/erp/backoffice/internal/infrastructure/notify"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMessageRouter wires the handler behind a fake authentication
// middleware so requests carry tenant, user and language claims.
func newMessageRouter(dispatcher notification.Dispatcher, tenantID, userID uuid.UUID, language string) *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("jwt_tenant_id", tenantID.String())
		c.Set("jwt_user_id", userID.String())
		c.Set("jwt_language", language)
		c.Next()
	})
	NewMessageHandler(dispatcher).RegisterRoutes(engine.Group(""))
	return engine
}

func dispatchTestMessage(t *testing.T, dispatcher notification.Dispatcher, tenantID, userID uuid.UUID, number string) *notification.Message {
	t.Helper()
	msg, err := notification.NewMessage(tenantID, userID, notification.TypeTodo,
		"PURCHASE_STORAGE.created", number, number)
	require.NoError(t, err)
	require.NoError(t, dispatcher.Dispatch(context.Background(), msg))
	return msg
}

func TestMessageHandlerPending(t *testing.T) {
	t.Run("renders pending messages in the caller's locale", func(t *testing.T) {
		tenantID, userID := uuid.New(), uuid.New()
		dispatcher := notify.NewInMemoryDispatcher()
		dispatchTestMessage(t, dispatcher, tenantID, userID, "CGRK20260310000001")

		engine := newMessageRouter(dispatcher, tenantID, userID, "zh_CN")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/messages", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Success bool              `json:"success"`
			Data    []MessageResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.True(t, resp.Success)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "TODO", resp.Data[0].Type)
		assert.Equal(t, "CGRK20260310000001", resp.Data[0].CorrelationTag)
		assert.Equal(t, "您有新的采购入库单 CGRK20260310000001 待审核", resp.Data[0].Content)
	})

	t.Run("falls back to english for unknown languages", func(t *testing.T) {
		tenantID, userID := uuid.New(), uuid.New()
		dispatcher := notify.NewInMemoryDispatcher()
		dispatchTestMessage(t, dispatcher, tenantID, userID, "CGRK20260310000002")

		engine := newMessageRouter(dispatcher, tenantID, userID, "fr_FR")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/messages", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []MessageResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "A new purchase storage receipt CGRK20260310000002 is awaiting review", resp.Data[0].Content)
	})

	t.Run("does not show another user's queue", func(t *testing.T) {
		tenantID, userID := uuid.New(), uuid.New()
		dispatcher := notify.NewInMemoryDispatcher()
		dispatchTestMessage(t, dispatcher, tenantID, uuid.New(), "CGRK20260310000003")

		engine := newMessageRouter(dispatcher, tenantID, userID, "en_US")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/messages", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []MessageResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Data)
	})

	t.Run("rejects an out-of-range limit", func(t *testing.T) {
		tenantID, userID := uuid.New(), uuid.New()
		engine := newMessageRouter(notify.NewInMemoryDispatcher(), tenantID, userID, "en_US")

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/messages?limit=500", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMessageHandlerMarkRead(t *testing.T) {
	t.Run("removes the message from the pending queue", func(t *testing.T) {
		tenantID, userID := uuid.New(), uuid.New()
		dispatcher := notify.NewInMemoryDispatcher()
		msg := dispatchTestMessage(t, dispatcher, tenantID, userID, "CGRK20260310000004")

		engine := newMessageRouter(dispatcher, tenantID, userID, "en_US")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("POST", "/messages/"+msg.ID.String()+"/read", nil))
		require.Equal(t, http.StatusOK, w.Code)

		pending, err := dispatcher.Pending(context.Background(), tenantID, userID, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("rejects a malformed message ID", func(t *testing.T) {
		tenantID, userID := uuid.New(), uuid.New()
		engine := newMessageRouter(notify.NewInMemoryDispatcher(), tenantID, userID, "en_US")

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("POST", "/messages/not-a-uuid/read", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
