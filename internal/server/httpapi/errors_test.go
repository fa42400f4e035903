package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/photodiary/internal/common"
	"github.com/dmitrijs2005/photodiary/internal/logging"
	"github.com/dmitrijs2005/photodiary/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDiary embeds the interface; tests set only the funcs they need.
type stubDiary struct {
	Diary
	getDay func(ctx context.Context, userID, date string) (*models.Day, error)
}

func (s *stubDiary) GetDay(ctx context.Context, userID, date string) (*models.Day, error) {
	return s.getDay(ctx, userID, date)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.ErrorNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", common.ErrDuplicateFilename), http.StatusConflict},
		{common.ErrInvalidTransform, http.StatusBadRequest},
		{common.ErrInvalidDate, http.StatusBadRequest},
		{common.ErrEmptyFile, http.StatusBadRequest},
		{common.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrBlobIO, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestInternalErrorIsHiddenAndLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewJSONLogger(&logs, "info")

	diary := &stubDiary{getDay: func(context.Context, string, string) (*models.Day, error) {
		return nil, errors.New("connection reset by peer")
	}}
	h := NewRouter(diary, logger, Options{SecretKey: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/api/diary/2024-05-01", nil)
	req.Header.Set("Authorization", bearer(t, "u1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "connection reset by peer")
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewJSONLogger(&logs, "info")

	diary := &stubDiary{getDay: func(_ context.Context, userID, date string) (*models.Day, error) {
		assert.Equal(t, "u1", userID)
		return &models.Day{Date: date, Images: []*models.Placement{}}, nil
	}}
	h := NewRouter(diary, logger, Options{SecretKey: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/api/diary/2024-05-01", nil)
	req.Header.Set("Authorization", bearer(t, "u1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]any
	dec := json.NewDecoder(&logs)
	for {
		var m map[string]any
		if err := dec.Decode(&m); err == io.EOF {
			break
		} else {
			require.NoError(t, err)
		}
		if m["msg"] == "http request" {
			entry = m
		}
	}
	require.NotNil(t, entry)
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/diary/2024-05-01", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, "http", entry["module"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestHealthz_NotReady(t *testing.T) {
	h := NewRouter(&stubDiary{}, logging.NewTextLogger(io.Discard, "error"), Options{
		Ready: func(context.Context) error { return errors.New("db down") },
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"not ready"}`, rec.Body.String())
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := UserIDFromContext(context.WithValue(context.Background(), userIDContextKey, "u9"))
	assert.True(t, ok)
	assert.Equal(t, "u9", id)
}
