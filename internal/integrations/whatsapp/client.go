package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config параметры шлюза
type Config struct {
	Enabled     bool
	BaseURL     string
	Token       string
	Timeout     time.Duration
	Language    string
	CountryCode string
}

// Client клиент внешнего WhatsApp-шлюза.
// Если шлюз выключен, сообщения не отправляются, а только логируются (simulated)
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента шлюза
func NewClient(cfg Config, log Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// SendMessage нормализует номер и отправляет текст через шлюз
func (c *Client) SendMessage(ctx context.Context, phone, templateName, text string) (*Result, error) {
	normalized, err := NormalizePhone(phone, c.cfg.CountryCode)
	if err != nil {
		return nil, err
	}

	if !c.cfg.Enabled {
		c.log.Info("WhatsApp gateway disabled, simulated send to=%s, template=%s", normalized, templateName)
		return &Result{Phone: normalized, Simulated: true}, nil
	}

	body, err := json.Marshal(sendRequest{
		To:       normalized,
		Template: templateName,
		Language: c.cfg.Language,
		Text:     text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/messages", c.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusAccepted:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: status %d: %s", ErrRecipientRejected, resp.StatusCode, readError(resp.Body))
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, resp.StatusCode)
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("WhatsApp message sent to=%s, template=%s, message_id=%s", normalized, templateName, out.MessageID)
	return &Result{Phone: normalized, MessageID: out.MessageID}, nil
}

// readError достает message из тела ошибки, если шлюз его прислал
func readError(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	var e ErrorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(raw)
}
