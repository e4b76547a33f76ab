package cart

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartRouter(storage Storage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(newTestService(storage), logrus.NewEntry(logrus.New())).Register(router)
	return router
}

func TestGetCartMintsSessionCookie(t *testing.T) {
	router := newCartRouter(newFakeStorage())

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	var sessionID string
	for _, c := range cookies {
		if c.Name == sessionCookie {
			sessionID = c.Value
		}
	}
	assert.NotEmpty(t, sessionID, "session cookie set on first visit")
}

func TestAddItemEndpointMerges(t *testing.T) {
	storage := newFakeStorage()
	router := newCartRouter(storage)

	add := func(quantity int) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(gin.H{"product_id": 1, "quantity": quantity})
		req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "session-1"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusCreated, add(2).Code)
	require.Equal(t, http.StatusCreated, add(3).Code)

	require.Len(t, storage.items, 1)
	for _, item := range storage.items {
		assert.Equal(t, 5, item.Quantity)
	}
}

func TestClearAllEmptiesSessionCart(t *testing.T) {
	storage := newFakeStorage()
	router := newCartRouter(storage)

	svc := newTestService(storage)
	_, err := svc.AddItem("session-1", 1, 2, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/cart?clearAll=true", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "session-1"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, storage.items)
}

func TestDeleteWithoutParamsIsBadRequest(t *testing.T) {
	router := newCartRouter(newFakeStorage())

	req := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "session-1"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
