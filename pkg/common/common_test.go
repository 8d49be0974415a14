package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/slask-dashboard/pkg/common/jsoncompat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonHandlerIssuesSession(t *testing.T) {
	var got string
	h := JsonHandler(nil, func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
		got = sessionId
		return enc.Encode(map[string]int{"ok": 1})
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, got, cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	var second string
	JsonHandler(nil, func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
		second = sessionId
		return nil
	})(rec, req)
	assert.Equal(t, got, second)
	assert.Empty(t, rec.Result().Cookies())
}

func TestJsonHandlerErrors(t *testing.T) {
	h := JsonHandler(nil, func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
		return NewHttpError(http.StatusConflict, errors.New("compare list is full"))
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"compare list is full"}`, rec.Body.String())

	h = JsonHandler(nil, func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
		panic("boom")
	})
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestQueueHandlerBatches(t *testing.T) {
	var mu sync.Mutex
	var batches [][]int
	q := NewQueueHandler(func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, append([]int(nil), items...))
	}, 2, time.Hour)
	q.Add(1, 2, 3)
	q.Close()

	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, b := range batches {
		assert.LessOrEqual(t, len(b), 2)
		total += len(b)
	}
	assert.Equal(t, 3, total)
	assert.Equal(t, 0, q.Len())
}
