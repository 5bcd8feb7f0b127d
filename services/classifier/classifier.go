// Package classifier talks to the external classification and anomaly
// detection services.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"sjsage522/propertydealworker/internal/scraper"
	"sjsage522/propertydealworker/pkg/errors"
)

// Service classifies scraped records and flags anomalies
type Service interface {
	// Classify sends the plain records and returns the classified rows as
	// the service produced them
	Classify(ctx context.Context, records []scraper.PropertyRecord) ([]map[string]any, error)

	// DetectAnomalies sends classified rows and returns one result per row
	DetectAnomalies(ctx context.Context, classified []map[string]any) ([]AnomalyResult, error)
}

// AnomalyResult is one row returned by the anomaly detection service
type AnomalyResult struct {
	District      string   `json:"district"`
	Price         *float64 `json:"price"`
	Area          *float64 `json:"area"`
	PricePerMeter *float64 `json:"price_per_meter"`
	Category      string   `json:"category,omitempty"`
	IsAnomaly     bool     `json:"is_anomaly"`
	AnomalyScore  float64  `json:"anomaly_score"`
}

// Client implements Service over HTTP
type Client struct {
	http        *resty.Client
	classifyURL string
	anomalyURL  string
}

var _ Service = (*Client)(nil)

// New creates a client posting to the two service URLs
func New(classifyURL, anomalyURL string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")

	return &Client{
		http:        client,
		classifyURL: classifyURL,
		anomalyURL:  anomalyURL,
	}
}

// Classify implements Service
func (c *Client) Classify(ctx context.Context, records []scraper.PropertyRecord) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.post(ctx, "classify", c.classifyURL, records, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DetectAnomalies implements Service
func (c *Client) DetectAnomalies(ctx context.Context, classified []map[string]any) ([]AnomalyResult, error) {
	var out []AnomalyResult
	if err := c.post(ctx, "anomaly", c.anomalyURL, classified, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, service, url string, body, out any) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(url)
	if err != nil {
		return errors.NewClassification(service, "request failed", err)
	}

	if res.StatusCode() != http.StatusOK {
		return errors.NewClassification(service,
			fmt.Sprintf("unexpected status %d: %s", res.StatusCode(), res.String()), nil)
	}

	if err := json.Unmarshal(res.Body(), out); err != nil {
		return errors.NewClassification(service, "failed to decode response", err)
	}
	return nil
}
