package paymentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с PaymentService
// Это ядро никогда не ходит в платежную сеть само: оно только сообщает
// платежному сервису суммы к списанию и к возврату
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewClient создает новый экземпляр клиента PaymentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// NotifyCharge сообщает платежному сервису сумму к списанию за бронь
// Бронь остается pending/unpaid до колбэка об успешной оплате
func (c *Client) NotifyCharge(ctx context.Context, req *ChargeRequest) error {
	url := fmt.Sprintf("%s/internal/charges", c.baseURL)
	return c.post(ctx, url, req)
}

// NotifyRefund передает платежному сервису вычисленную сумму возврата
func (c *Client) NotifyRefund(ctx context.Context, req *RefundRequest) error {
	url := fmt.Sprintf("%s/internal/refunds", c.baseURL)
	return c.post(ctx, url, req)
}

func (c *Client) post(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("PaymentService request failed: url=%s, error=%v", url, err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}
