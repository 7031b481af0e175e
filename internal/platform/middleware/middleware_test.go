// Copyright (c) 2026 SOYO. All rights reserved.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soyoapp/soyo/internal/platform/constants"
	"github.com/soyoapp/soyo/internal/platform/ctxutil"
)

type fakeConfig struct {
	development  bool
	extraOrigins []string
}

func (c fakeConfig) IsDevelopment() bool { return c.development }
func (c fakeConfig) ExtraAllowedOrigins() []string { return c.extraOrigins }

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	})

	handler := RequestID()(inner)

	// Generated when absent.
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))

	// Preserved when the client supplies one.
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "client-supplied-id")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "client-supplied-id", seen)
}

func TestCORS_ProductionOriginRules(t *testing.T) {
	cfg := fakeConfig{extraOrigins: []string{"https://staging.example.net"}}
	handler := CORS(cfg)(okHandler())

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"first_party", "https://www.soyo.app", true},
		{"extra_origin", "https://staging.example.net", true},
		{"stranger", "https://evil.example.com", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/", nil)
			request.Header.Set(constants.HeaderOrigin, tc.origin)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			got := recorder.Header().Get("Access-Control-Allow-Origin")
			if tc.allowed {
				assert.Equal(t, tc.origin, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestCORS_DevelopmentAllowsAnyOrigin(t *testing.T) {
	handler := CORS(fakeConfig{development: true})(okHandler())

	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set(constants.HeaderOrigin, "http://localhost:5173")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	handler := CORS(fakeConfig{development: true})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("preflight must not reach the inner handler")
	}))

	request := httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "http://localhost:5173")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRealIP_HeaderPrecedence(t *testing.T) {
	request := httptest.NewRequest("GET", "/", nil)
	request.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.7, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.9")
	assert.Equal(t, "198.51.100.9", RealIP(request))
}
