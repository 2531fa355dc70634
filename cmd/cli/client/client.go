// Package client is the thin HTTP layer shared by the CLI commands.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/crucial707/ems-inventory/cmd/cli/config"
)

// ErrNotLoggedIn is returned when no token is stored locally.
var ErrNotLoggedIn = fmt.Errorf("not logged in: run 'ems login' first")

// Do sends a request to the API. payload is JSON-encoded when non-nil. When
// auth is true the stored token is attached; a missing token fails fast with
// ErrNotLoggedIn. Returns the raw body and status code.
func Do(method, path string, payload interface{}, auth bool) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token, err := config.LoadToken()
		if err != nil {
			return nil, 0, ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode, nil
}

// DoJSON sends a request and decodes a 2xx response into out (when non-nil).
// Non-2xx responses become an error carrying the API's error message.
func DoJSON(method, path string, payload interface{}, auth bool, out interface{}) error {
	body, status, err := Do(method, path, payload, auth)
	if err != nil {
		return err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &errResp)
		if errResp.Error != "" {
			return fmt.Errorf("API error: %s", errResp.Error)
		}
		return fmt.Errorf("status %d: %s", status, string(body))
	}
	if out != nil && len(body) > 0 {
		return json.Unmarshal(body, out)
	}
	return nil
}
