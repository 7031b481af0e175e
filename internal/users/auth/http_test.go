// Copyright (c) 2026 SOYO. All rights reserved.

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestSignup_ValidatesTrimmedName verifies the name length rules run against the
trimmed value. "a " is two characters on the wire but one after trimming, so
it must be rejected; a padded valid name is accepted and stored trimmed.
*/
func TestSignup_ValidatesTrimmedName(t *testing.T) {
	service, _ := newTestService(t)
	router := NewHandler(service).Routes()

	// Padding must not count toward the minimum length.
	recorder := postJSON(t, router, "/signup",
		`{"name":"a ","email":"short@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// A valid name survives its padding; the stored value is trimmed.
	recorder = postJSON(t, router, "/signup",
		`{"name":"  Ana  ","email":"ana@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "Ana", envelope.Data.User.Name)
}
