package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct{ healthy, ready bool }

func (p stubHealth) IsHealthy() bool { return p.healthy }
func (p stubHealth) IsReady() bool   { return p.ready }

func TestHealthMux(t *testing.T) {
	mux := healthMux(stubHealth{healthy: true, ready: false})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/health", http.StatusOK, "UP"},
		{"/health/live", http.StatusOK, "UP"},
		{"/health/ready", http.StatusServiceUnavailable, "DOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body["status"])
			assert.Equal(t, "outbox-relay", body["component"])
		})
	}
}
