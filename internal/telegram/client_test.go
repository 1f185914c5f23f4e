package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Maikai1er/la-baza-bot/internal/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	client := telegram.NewWithHost(srv.URL, "test-token")

	err := client.SendMessage(context.Background(), -100, 7, "привет")
	require.NoError(t, err)

	assert.Equal(t, float64(-100), got["chat_id"])
	assert.Equal(t, float64(7), got["reply_to_message_id"])
	assert.Equal(t, "привет", got["text"])
}

func TestSendMessage_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	client := telegram.NewWithHost(srv.URL, "test-token")

	err := client.SendMessage(context.Background(), 1, 0, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestIsOrganizer(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"creator", true},
		{"administrator", true},
		{"member", false},
		{"left", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/bottest-token/getChatMember", r.URL.Path)
				_, _ = w.Write([]byte(`{"ok":true,"result":{"status":"` + tt.status + `"}}`))
			}))
			defer srv.Close()

			client := telegram.NewWithHost(srv.URL, "test-token")

			got, err := client.IsOrganizer(context.Background(), -100, 42)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
