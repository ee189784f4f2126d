package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	var out account
	err := decodeEnvelope(strings.NewReader(`{"code":200,"data":{"id":"u1","username":"alice"}}`), &out)
	require.NoError(t, err)
	assert.Equal(t, "u1", out.ID)

	err = decodeEnvelope(strings.NewReader(`{"code":400,"message":"verification code is incorrect"}`), nil)
	assert.EqualError(t, err, "verification code is incorrect")

	err = decodeEnvelope(strings.NewReader(`{"code":500}`), nil)
	assert.EqualError(t, err, "request failed with code 500")

	err = decodeEnvelope(strings.NewReader(`<html>`), nil)
	assert.Error(t, err)
}

// fakeAPI answers the three auth routes the setup tool calls.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/sendCode", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": 200, "message": "verification code sent"})
	})
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["code"] != "abc123" || body["role"] != merchantRole {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": 400, "message": "verification code is incorrect"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 200,
			"data": map[string]string{"id": "u1", "username": body["username"], "email": body["email"], "role": body["role"]},
		})
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 200,
			"data": map[string]interface{}{
				"user":  map[string]string{"id": "u1", "username": "alice", "role": merchantRole},
				"token": "tok",
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func typeText(t *testing.T, m model, text string) model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(model)
}

// enter presses Enter and runs the returned command chain to completion.
func enter(t *testing.T, m model) model {
	t.Helper()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	for cmd != nil {
		msg := cmd()
		if _, quit := msg.(tea.QuitMsg); quit {
			break
		}
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestModel_OnboardingFlow(t *testing.T) {
	srv := fakeAPI(t)
	m := initialModel(newAPIClient(srv.URL + "/"))

	m = enter(t, typeText(t, m, "alice@example.com"))
	require.Equal(t, stepEnteringCode, m.step)
	assert.Equal(t, "alice@example.com", m.email)

	m = enter(t, typeText(t, m, "abc123"))
	require.Equal(t, stepEnteringUsername, m.step)

	m = enter(t, typeText(t, m, "alice"))
	require.Equal(t, stepEnteringPassword, m.step)

	m = enter(t, typeText(t, m, "secret1"))
	require.Equal(t, stepComplete, m.step)
	assert.Equal(t, "tok", m.token)
	assert.Equal(t, "u1", m.user.ID)
	assert.Empty(t, m.password)
	assert.Contains(t, m.View(), "tok")
}

func TestModel_RegisterFailureReturnsToCode(t *testing.T) {
	srv := fakeAPI(t)
	m := initialModel(newAPIClient(srv.URL))

	m = enter(t, typeText(t, m, "alice@example.com"))
	m = enter(t, typeText(t, m, "wrong1"))
	m = enter(t, typeText(t, m, "alice"))
	m = enter(t, typeText(t, m, "secret1"))

	assert.Equal(t, stepEnteringCode, m.step)
	assert.Contains(t, m.message, "verification code is incorrect")
}

func TestModel_Input(t *testing.T) {
	m := initialModel(newAPIClient("http://unused"))

	m = typeText(t, m, "ab")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(model)
	assert.Equal(t, "a", m.currentInput)

	// empty input does not advance
	m.currentInput = "  "
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, stepEnteringEmail, next.(model).step)

	next, _ = m.Update(errMsg{err: errors.New("server not reachable"), back: stepEnteringEmail})
	assert.Contains(t, next.(model).View(), "server not reachable")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, next.(model).quitting)
	assert.NotNil(t, cmd)
}
