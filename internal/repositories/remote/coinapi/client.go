// Package coinapi implements the RemoteAssetSource port against the CoinAPI
// REST API (rest.coinapi.io). Only this package touches the wire format.
package coinapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/whitebox/cryptomonitor/internal/apperrors"
	"github.com/whitebox/cryptomonitor/internal/core/domain"
	portsrepo "github.com/whitebox/cryptomonitor/internal/core/ports/repositories"
)

const apiKeyHeader = "X-CoinAPI-Key"

// Client is an HTTP client for the CoinAPI asset endpoints.
type Client struct {
	baseURL       string
	apiKey        string
	quoteCurrency string
	httpClient    *http.Client
}

// NewClient creates a Client. quoteCurrency is the fixed reference currency
// for exchange-rate lookups (EUR in this system).
func NewClient(baseURL, apiKey, quoteCurrency string, timeout time.Duration) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		quoteCurrency: quoteCurrency,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// Ensure implementation matches interface
var _ portsrepo.RemoteAssetSource = (*Client)(nil)

// GetAssets fetches the full asset list, fiat entries included.
func (c *Client) GetAssets(ctx context.Context) ([]domain.Asset, error) {
	var dtos []assetDto
	if err := c.get(ctx, "assets", &dtos); err != nil {
		return nil, err
	}
	assets := make([]domain.Asset, len(dtos))
	for i, d := range dtos {
		assets[i] = d.toDomain()
	}
	return assets, nil
}

// GetAssetDetails fetches a single asset. The endpoint is inconsistent about
// returning a bare object or a one-element array; both are accepted.
func (c *Client) GetAssetDetails(ctx context.Context, assetID string) (*domain.Asset, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "assets/"+url.PathEscape(assetID), &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var dtos []assetDto
		if err := json.Unmarshal(trimmed, &dtos); err != nil {
			return nil, fmt.Errorf("failed to decode asset details for %s: %w", assetID, err)
		}
		if len(dtos) == 0 {
			return nil, apperrors.NewNotFoundError("asset " + assetID + " not found")
		}
		asset := dtos[0].toDomain()
		return &asset, nil
	}

	var dto assetDto
	if err := json.Unmarshal(trimmed, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode asset details for %s: %w", assetID, err)
	}
	asset := dto.toDomain()
	return &asset, nil
}

// GetAssetIcons fetches the icon URL list for a size token.
func (c *Client) GetAssetIcons(ctx context.Context, size string) ([]domain.AssetIcon, error) {
	var dtos []assetIconDto
	if err := c.get(ctx, "assets/icons/"+url.PathEscape(size), &dtos); err != nil {
		return nil, err
	}
	icons := make([]domain.AssetIcon, len(dtos))
	for i, d := range dtos {
		icons[i] = d.toDomain()
	}
	return icons, nil
}

// GetExchangeRate fetches the rate of the base asset against the configured
// quote currency.
func (c *Client) GetExchangeRate(ctx context.Context, assetIDBase string) (*domain.ExchangeRate, error) {
	var dto exchangeRateDto
	path := "exchangerate/" + url.PathEscape(assetIDBase) + "/" + url.PathEscape(c.quoteCurrency)
	if err := c.get(ctx, path, &dto); err != nil {
		return nil, err
	}
	rate := dto.toDomain()
	return &rate, nil
}

// get performs an authenticated GET and decodes the JSON response into v.
// Non-2xx replies become AppErrors carrying the structured error message
// when the body has one; anything else is a transport failure.
func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.protocolError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// protocolError turns a non-2xx reply into an AppError, preferring the
// structured {"error": ...} message and falling back to a generic one when
// the body is absent or unparseable.
func (c *Client) protocolError(resp *http.Response) error {
	message := fmt.Sprintf("remote source returned status %d", resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var errResp errorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error != "" {
			message = errResp.Error
		}
	}

	appErr := apperrors.NewAppError(resp.StatusCode, message, nil)
	if resp.StatusCode == http.StatusNotFound {
		appErr.Err = apperrors.ErrNotFound
	}
	return appErr
}
