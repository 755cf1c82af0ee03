// Package pricing talks to the upstream price-listing backend.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "camprice/internal/errors"
	"camprice/pkg/contracts/domain"
)

// Client fetches price records from the upstream REST backend.
// The listing endpoint is unpaginated; the full data set is fetched per call.
// There are no retries: a failed fetch aborts the whole report attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a price backend client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ListPrices fetches every price record from the backend.
func (c *Client) ListPrices(ctx context.Context) ([]domain.PriceRecord, error) {
	url := c.baseURL + "/prices/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to build price listing request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to fetch prices", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("price backend returned status %d", resp.StatusCode), nil)
	}

	var records []domain.PriceRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, apperrors.NewParsingError("failed to decode price listing response", err)
	}

	c.logger.DebugContext(ctx, "fetched price records",
		slog.Int("record_count", len(records)),
		slog.String("duration", time.Since(start).String()))

	return records, nil
}
