package actor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/weedbox/blackjacktable/protocol"
)

// Authenticate obtains a ticket over HTTP from a table server, for example
// http://localhost:8080.
func Authenticate(ctx context.Context, baseURL string, name string, password string) (*protocol.TicketPayload, error) {
	body, err := json.Marshal(protocol.AuthenticatePayload{
		Name:     name,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/authenticate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCourierClosed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var p protocol.ErrorPayload
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return nil, fmt.Errorf("actor: authenticate: unexpected status %d", resp.StatusCode)
		}
		return nil, &CommandError{Code: p.Code, Message: p.Message}
	}

	var ticket protocol.TicketPayload
	if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrMalformedPayload, err)
	}
	return &ticket, nil
}

// WebsocketURL turns the base URL of a table server into its websocket
// endpoint.
func WebsocketURL(baseURL string) string {
	url := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url + "/ws"
}
