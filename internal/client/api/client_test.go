package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Register(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/register", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice01", body["username"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":"u-1","username":"alice01"},"token":"tok"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	user, token, err := c.Register(context.Background(), "alice01", "a@example.com", "Abcdef12")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "tok", token)
}

func TestClient_Login_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid password"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, _, err := c.Login(context.Background(), "alice01", "wrong")

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.EqualError(t, err, "invalid password")
}

func TestClient_Register_ValidationErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid input data","errors":["username must be between 3 and 30 characters"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, _, err := c.Register(context.Background(), "a", "a@example.com", "Abcdef12")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, apiErr.Violations, 1)
}

func TestClient_Profile_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":"u-1","username":"alice01"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	user, err := c.Profile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice01", user.Username)
}
