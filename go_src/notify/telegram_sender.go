package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var telegramAPIBaseURL = "https://api.telegram.org/bot"

const telegramTimeout = 10 * time.Second

// TelegramRequest represents the payload for sending a message to Telegram.
type TelegramRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// TelegramResponse represents the structure of a response from the Telegram API.
type TelegramResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// SendTelegramMessage posts message to chatID through the bot API. A nil
// httpClient uses a client with a 10s timeout.
func SendTelegramMessage(ctx context.Context, httpClient *http.Client, token, chatID, message string) error {
	if token == "" {
		return fmt.Errorf("telegram bot token cannot be empty")
	}
	if chatID == "" {
		return fmt.Errorf("telegram chat ID cannot be empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: telegramTimeout}
	}

	apiURL := fmt.Sprintf("%s%s/sendMessage", telegramAPIBaseURL, token)
	jsonPayload, err := json.Marshal(TelegramRequest{ChatID: chatID, Text: message})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create new HTTP request for telegram: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		// The URL carries the bot token; keep it out of the message.
		return fmt.Errorf("failed to send HTTP request to telegram API: %w", unwrapURLError(err))
	}
	defer resp.Body.Close()

	var telegramResp TelegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&telegramResp); err != nil {
		return fmt.Errorf("failed to decode telegram API response (status %s): %w", resp.Status, err)
	}
	if !telegramResp.Ok || resp.StatusCode >= 400 {
		return fmt.Errorf("telegram API error (HTTP Status %s): %s", resp.Status, telegramResp.Description)
	}
	return nil
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
