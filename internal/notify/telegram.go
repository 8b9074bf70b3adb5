// Package notify delivers short run summaries to Telegram.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// TokenEnv is where the bot token is read from; it never lives in config.
const TokenEnv = "NIGHTWATCH_TELEGRAM_TOKEN"

// Telegram sends messages through the Bot API.
type Telegram struct {
	token  string
	chatID string
	client *http.Client

	// baseURL is overridable for tests.
	baseURL string
}

// NewTelegram reads the bot token from the environment. Returns an error
// when the token or chat id is missing so the caller can skip notification
// rather than fail the run.
func NewTelegram(chatID string) (*Telegram, error) {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("%s not set", TokenEnv)
	}
	if chatID == "" {
		return nil, fmt.Errorf("notifications.chat_id not configured")
	}
	return &Telegram{
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://api.telegram.org",
	}, nil
}

// Send posts one message to the configured chat.
func (t *Telegram) Send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	form := url.Values{
		"chat_id": {t.chatID},
		"text":    {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
