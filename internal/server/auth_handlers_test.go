package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Success",
			body: map[string]string{
				"name":     "Jane Doe",
				"email":    "jane@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Missing name",
			body: map[string]string{
				"email":    "noname@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "name is required",
		},
		{
			name: "Invalid email",
			body: map[string]string{
				"name":     "Jane Doe",
				"email":    "not-an-email",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "email address is not valid",
		},
		{
			name: "Weak password",
			body: map[string]string{
				"name":     "Jane Doe",
				"email":    "weak@example.com",
				"password": "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/users", "", tt.body)
			body := decodeBody(t, resp)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, true, body["success"])
				data := body["data"].(map[string]any)
				assert.NotEmpty(t, data["token"])
				user := data["user"].(map[string]any)
				assert.Equal(t, "jane@example.com", user["email"])
				assert.Contains(t, user["avatar"], "gravatar.com/avatar/")
				_, hasPassword := user["password"]
				assert.False(t, hasPassword, "password hash must never be serialized")
			} else {
				assert.Equal(t, false, body["success"])
				if tt.expectedError != "" {
					assert.Equal(t, tt.expectedError, body["error"])
				}
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, app := newTestServer(t)

	body := map[string]string{
		"name":     "First",
		"email":    "dup@example.com",
		"password": "password123",
	}
	resp := doJSON(t, app, http.MethodPost, "/api/users", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	body["name"] = "Second"
	resp = doJSON(t, app, http.MethodPost, "/api/users", "", body)
	decoded := decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", decoded["error"])
}

func TestRegisterNormalizesEmailCase(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]string{
		"name":     "Case Test",
		"email":    "Mixed.Case@Example.COM",
		"password": "password123",
	})
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, strings.ToLower("Mixed.Case@Example.COM"), user["email"])
}

func TestLogin(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "Login User", "login@example.com")

	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{"Success", "login@example.com", "password123", http.StatusOK},
		{"Wrong password", "login@example.com", "wrongpass1", http.StatusUnauthorized},
		{"Unknown email", "nobody@example.com", "password123", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth", "", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			body := decodeBody(t, resp)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == http.StatusOK {
				data := body["data"].(map[string]any)
				assert.NotEmpty(t, data["token"])
			} else {
				// Same message on both failure paths so login cannot probe
				// which emails are registered.
				assert.Equal(t, "Invalid credentials", body["error"])
			}
		})
	}
}

func TestGetMe(t *testing.T) {
	s, app := newTestServer(t)
	user, token := createTestUser(t, s, "Me User", "me@example.com")

	resp := doJSON(t, app, http.MethodGet, "/api/auth", token, nil)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(user.ID), data["id"])
	assert.Equal(t, "me@example.com", data["email"])
}

func TestAuthRequired(t *testing.T) {
	s, app := newTestServer(t)
	user, token := createTestUser(t, s, "Guard User", "guard@example.com")

	t.Run("missing token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/auth", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/auth", "not.a.token", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token for deleted user", func(t *testing.T) {
		require.NoError(t, s.db.Unscoped().Delete(user).Error)
		resp := doJSON(t, app, http.MethodGet, "/api/auth", token, nil)
		body := decodeBody(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "User no longer exists", body["error"])
	})
}
