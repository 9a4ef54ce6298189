package middleware

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

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		status    int
		wantLevel string
		wantMsg   string
	}{
		{name: "success", status: http.StatusOK, wantLevel: "info", wantMsg: "Request handled"},
		{name: "client error", status: http.StatusNotFound, wantLevel: "warning", wantMsg: "Request rejected"},
		{name: "server error", status: http.StatusServiceUnavailable, wantLevel: "error", wantMsg: "Request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logrus.New()
			log.SetOutput(&buf)
			log.SetFormatter(&logrus.JSONFormatter{})

			r := gin.New()
			r.Use(RequestLogger(log))
			r.GET("/zones", func(c *gin.Context) {
				c.String(tt.status, "body")
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/zones?page=2", nil)
			r.ServeHTTP(w, req)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["msg"])
			assert.Equal(t, "GET", entry["method"])
			assert.Equal(t, "/zones?page=2", entry["path"])
			assert.EqualValues(t, tt.status, entry["status"])
			assert.EqualValues(t, 4, entry["bytes"])
		})
	}
}
