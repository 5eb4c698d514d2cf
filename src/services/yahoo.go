// backend/src/services/yahoo.go
package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/username/cartera/backend/src/logger"
	"golang.org/x/net/publicsuffix"
)

const yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// --- API Response Structs ---

type yahooHistoryResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// dailyClose is one trading day of a downloaded history.
type dailyClose struct {
	Date  string
	Close float64
}

// yahooClient wraps the chart API with the cookie/crumb session dance the
// endpoints require. Safe for concurrent use.
type yahooClient struct {
	httpClient    http.Client
	isInitialized bool
	crumb         string
	mu            sync.Mutex
}

func newYahooClient(timeout time.Duration) *yahooClient {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	return &yahooClient{
		httpClient: http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}
}

func (c *yahooClient) initializeSession() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isInitialized && c.crumb != "" {
		return
	}

	logger.L.Info("Initializing Yahoo Finance session and fetching Crumb...")

	for _, url := range []string{"https://fc.yahoo.com", "https://finance.yahoo.com"} {
		req, _ := http.NewRequest("GET", url, nil)
		req.Header.Set("User-Agent", yahooUserAgent)
		resp, err := c.httpClient.Do(req)
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}

	req, _ := http.NewRequest("GET", "https://query1.finance.yahoo.com/v1/test/getcrumb", nil)
	req.Header.Set("User-Agent", yahooUserAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.L.Error("Failed to fetch crumb", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.crumb = string(bodyBytes)
		c.isInitialized = true
		logger.L.Info("Yahoo session initialized successfully")
	} else {
		logger.L.Warn("Failed to fetch crumb", "status", resp.Status)
	}
}

func (c *yahooClient) ensureSession() {
	c.mu.Lock()
	needsInit := !c.isInitialized || c.crumb == ""
	c.mu.Unlock()

	if needsInit {
		c.initializeSession()
	}
}

// fetchDailyHistory downloads daily closes for a symbol between start and end
// (inclusive), in ascending date order. Days with a zero close are skipped.
func (c *yahooClient) fetchDailyHistory(symbol string, start, end time.Time) ([]dailyClose, string, error) {
	c.ensureSession()

	period1 := start.Unix()
	period2 := end.AddDate(0, 0, 1).Unix()
	url := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&crumb=%s", symbol, period1, period2, c.crumb)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 401 {
		c.mu.Lock()
		c.isInitialized = false
		c.mu.Unlock()
		return nil, "", fmt.Errorf("status 401 (Unauthorized) - Crumb invalid")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("yahoo history api returned %d", resp.StatusCode)
	}

	var data yahooHistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, "", fmt.Errorf("failed to decode history json: %w", err)
	}
	if data.Chart.Error != nil {
		return nil, "", fmt.Errorf("yahoo history api returned an error: %v", data.Chart.Error)
	}
	if len(data.Chart.Result) == 0 {
		return nil, "", fmt.Errorf("no history result found")
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, "", fmt.Errorf("no quote data found")
	}
	quotes := result.Indicators.Quote[0].Close
	if len(result.Timestamp) != len(quotes) {
		return nil, "", fmt.Errorf("data mismatch")
	}

	var rows []dailyClose
	for i, ts := range result.Timestamp {
		if quotes[i] == 0 {
			continue
		}
		rows = append(rows, dailyClose{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: quotes[i],
		})
	}
	return rows, result.Meta.Currency, nil
}
