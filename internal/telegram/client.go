// Package telegram is a minimal Bot API client covering the two calls the
// bot needs: replying to a message and looking up a member's chat role.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultAPIHost = "https://api.telegram.org"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func New(token string) *Client {
	return NewWithHost(defaultAPIHost, token)
}

// NewWithHost exists so tests can point the client at a local server.
func NewWithHost(host, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    fmt.Sprintf("%s/bot%s", host, token),
	}
}

func (c *Client) call(ctx context.Context, method string, payload, result any) error {
	const op = "telegram.call"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("%s: %s: %s", op, method, apiResp.Description)
	}

	if result != nil {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// SendMessage replies to a message in a chat. A zero replyTo sends a plain
// message instead of a reply.
func (c *Client) SendMessage(ctx context.Context, chatID, replyTo int64, text string) error {
	const op = "telegram.SendMessage"

	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if replyTo != 0 {
		payload["reply_to_message_id"] = replyTo
	}

	if err := c.call(ctx, "sendMessage", payload, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsOrganizer reports whether the user is the chat's creator or an
// administrator.
func (c *Client) IsOrganizer(ctx context.Context, chatID, userID int64) (bool, error) {
	const op = "telegram.IsOrganizer"

	payload := map[string]any{
		"chat_id": chatID,
		"user_id": userID,
	}

	var member ChatMember
	if err := c.call(ctx, "getChatMember", payload, &member); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return member.Status == "creator" || member.Status == "administrator", nil
}
