// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_SignupThenToken(t *testing.T) {
	f := newFixture()
	router := NewHandler(f.service).Routes()

	recorder := postJSON(t, router, "/signup", `{"username":"alice","email":"alice@x.com"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var signup struct {
		Data signupResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &signup))
	assert.Equal(t, signupResponse{Username: "alice", Email: "alice@x.com"}, signup.Data)

	body := `{"username":"alice","confirmation_code":"` + f.notifier.lastCode() + `"}`
	recorder = postJSON(t, router, "/token", body)
	require.Equal(t, http.StatusOK, recorder.Code)

	var token struct {
		Data tokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &token))
	assert.Equal(t, "token-1-alice", token.Data.Token)
}

func TestHandler_Errors(t *testing.T) {
	f := newFixture()
	router := NewHandler(f.service).Routes()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"invalid_json", "/signup", `{`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"reserved", "/signup", `{"username":"me","email":"me@x.com"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"token_missing_fields", "/token", `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"token_unknown_user", "/token", `{"username":"ghost","confirmation_code":"x"}`, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, router, tt.path, tt.body)
			assert.Equal(t, tt.status, recorder.Code)

			var envelope struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, tt.code, envelope.Code)
		})
	}
}
