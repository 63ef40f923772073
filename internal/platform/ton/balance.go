package ton

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// BalanceChecker reads account balances via TonAPI HTTP.
type BalanceChecker struct {
	tonapiBase  string
	tonapiToken string
	httpClient  *http.Client
}

// NewBalanceChecker initializes a TonAPI-based balance checker.
func NewBalanceChecker(baseURL, apiToken string) *BalanceChecker {
	if baseURL == "" {
		baseURL = "https://tonapi.io"
	}
	return &BalanceChecker{
		tonapiBase:  strings.TrimRight(baseURL, "/"),
		tonapiToken: apiToken,
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
}

// GetAddressBalanceNano returns the native TON balance in nanoTONs for the address.
func (c *BalanceChecker) GetAddressBalanceNano(ctx context.Context, addr string) (int64, error) {
	var out struct {
		Balance string `json:"balance"`
	}
	url := c.tonapiBase + "/v2/accounts/" + addr
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	req.Header.Set("Accept", "application/json")
	if c.tonapiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.tonapiToken)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("tonapi http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	var n int64
	for i := 0; i < len(out.Balance); i++ {
		ch := out.Balance[i]
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("invalid balance format")
		}
		n = n*10 + int64(ch-'0')
	}
	return n, nil
}
