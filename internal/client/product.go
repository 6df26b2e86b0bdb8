// Package client holds HTTP clients for the downstream services the promotion
// service reads from.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/utafrali/promotion-service/internal/domain"
	apperrors "github.com/utafrali/promotion-service/pkg/errors"
	"github.com/utafrali/promotion-service/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CircuitOpenFallback is the circuit breaker fallback for product catalog calls.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("product catalog is temporarily unavailable, please retry later")
}

// maxBatchSize bounds the number of ids sent in one batch request.
const maxBatchSize = 100

// ProductClient reads product snapshots from the product service.
type ProductClient struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewProductClient creates a product client for the service at baseURL.
func NewProductClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *ProductClient {
	return &ProductClient{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

type productResponse struct {
	Data domain.Product `json:"data"`
}

type productsResponse struct {
	Data []domain.Product `json:"data"`
}

// GetProduct fetches a single product.
func (c *ProductClient) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	endpoint := c.baseURL + "/api/v1/products/" + strconv.FormatInt(id, 10)

	var out productResponse
	if err := c.get(ctx, endpoint, &out); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &out.Data, nil
}

// GetProducts fetches products by id. Unknown ids are absent from the result;
// the order follows the product service's response.
func (c *ProductClient) GetProducts(ctx context.Context, ids []int64) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(ids))

	for start := 0; start < len(ids); start += maxBatchSize {
		end := min(start+maxBatchSize, len(ids))

		parts := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			parts = append(parts, strconv.FormatInt(id, 10))
		}

		q := url.Values{}
		q.Set("ids", strings.Join(parts, ","))
		endpoint := c.baseURL + "/api/v1/products?" + q.Encode()

		var out productsResponse
		if err := c.get(ctx, endpoint, &out); err != nil {
			return nil, fmt.Errorf("get products: %w", err)
		}
		products = append(products, out.Data...)
	}

	c.logger.DebugContext(ctx, "products fetched",
		slog.Int("requested", len(ids)),
		slog.Int("returned", len(products)),
	)

	return products, nil
}

func (c *ProductClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call product service: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "product")
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode product response: %w", err)
	}
	return nil
}
