package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginResult struct {
	User  account `json:"user"`
	Token string  `json:"token"`
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) sendCode(email string) error {
	return c.post("/api/auth/sendCode", map[string]string{"email": email}, nil)
}

func (c *apiClient) register(username, password, email, code, role string) (*account, error) {
	var out account
	err := c.post("/api/auth/register", map[string]string{
		"username": username,
		"password": password,
		"email":    email,
		"code":     code,
		"role":     role,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) login(username, password string) (*loginResult, error) {
	var out loginResult
	err := c.post("/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) post(path string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("server not reachable at %s", c.baseURL)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp.Body, out)
}

// decodeEnvelope turns a non-200 envelope code into an error carrying the
// server's message.
func decodeEnvelope(r io.Reader, out interface{}) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("unexpected response: %w", err)
	}

	if env.Code != http.StatusOK {
		if env.Message == "" {
			return fmt.Errorf("request failed with code %d", env.Code)
		}
		return errors.New(env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
