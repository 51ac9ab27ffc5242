package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"captioncraft/internal/pkg/logger"

	"go.uber.org/zap"
)

var ErrSyncFailed = errors.New("crm contact sync failed")

type Contact struct {
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	BusinessName        string `json:"businessName"`
	BusinessType        string `json:"businessType"`
	BusinessDescription string `json:"businessDescription"`
}

type ContactSyncer interface {
	SyncContact(ctx context.Context, c Contact) error
}

type contactPayload struct {
	Contact
	Source string `json:"source"`
}

type httpContactClient struct {
	endpoint string
	apiKey   string
	source   string
	client   *http.Client
	logger   *zap.Logger
}

// NewContactClient returns nil when baseURL is empty, which disables syncing.
func NewContactClient(baseURL, apiKey, source string, timeout time.Duration, log *zap.Logger) ContactSyncer {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpContactClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/contacts/",
		apiKey:   strings.TrimSpace(apiKey),
		source:   source,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.OrNop(log),
	}
}

func (c *httpContactClient) SyncContact(ctx context.Context, contact Contact) error {
	b, err := json.Marshal(contactPayload{Contact: contact, Source: c.source})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	bodyStr := strings.TrimSpace(string(rb))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status=%d body=%s", ErrSyncFailed, resp.StatusCode, bodyStr)
	}

	c.logger.Info("crm contact synced", zap.String("email", contact.Email), zap.Int("status", resp.StatusCode))
	return nil
}

var _ ContactSyncer = (*httpContactClient)(nil)
