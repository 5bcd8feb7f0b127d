package classifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/propertydealworker/internal/scraper"
	"sjsage522/propertydealworker/pkg/errors"
)

func f64(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	var received []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"district":"العليا","price":1500000,"area":500,"price_per_meter":3000,"category":"High"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, time.Second)
	out, err := c.Classify(context.Background(), []scraper.PropertyRecord{
		{District: "العليا", Price: f64(1500000), Area: f64(500), PricePerMeter: f64(3000), Date: "13/06/2024"},
	})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "High", out[0]["category"])

	require.Len(t, received, 1)
	assert.Equal(t, "العليا", received[0]["district"])
	assert.Equal(t, "13/06/2024", received[0]["date"])
	assert.NotContains(t, received[0], "category")
}

func TestDetectAnomalies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"district":"العليا","price":1500000,"area":500,"price_per_meter":3000,"is_anomaly":true,"anomaly_score":0.93},
			{"district":"الملقا","price":null,"area":500,"price_per_meter":null}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, time.Second)
	out, err := c.DetectAnomalies(context.Background(), []map[string]any{{"district": "العليا"}})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].IsAnomaly)
	assert.Equal(t, 0.93, out[0].AnomalyScore)
	assert.Equal(t, f64(3000), out[0].PricePerMeter)

	// missing fields fall back to defaults
	assert.False(t, out[1].IsAnomaly)
	assert.Zero(t, out[1].AnomalyScore)
	assert.Nil(t, out[1].Price)
}

func TestNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, time.Second)

	_, err := c.Classify(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeClassification))
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")

	_, err = c.DetectAnomalies(context.Background(), nil)
	assert.True(t, errors.Is(err, errors.ErrorTypeClassification))
	assert.Contains(t, err.Error(), "anomaly")
}

func TestMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.URL, time.Second).Classify(context.Background(), nil)
	assert.True(t, errors.Is(err, errors.ErrorTypeClassification))
	assert.Contains(t, err.Error(), "decode")
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, url, time.Second).Classify(context.Background(), nil)
	assert.True(t, errors.Is(err, errors.ErrorTypeClassification))
}
