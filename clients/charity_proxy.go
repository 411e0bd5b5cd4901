package clients

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"recipe-giving/logging"
	"recipe-giving/types"
)

// CharityProxyClient reads charity pages from a /api/charities endpoint,
// so the search API key stays with the proxy
type CharityProxyClient struct {
	http *resty.Client
}

// NewCharityProxyClient creates a client for the proxy at baseURL
func NewCharityProxyClient(baseURL string) *CharityProxyClient {
	return &CharityProxyClient{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(10 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// FetchCharityPage never fails: non-2xx, transport and decode failures
// all yield an empty page at start
func (c *CharityProxyClient) FetchCharityPage(ctx context.Context, countryCode string, start int) types.CharityPage {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("start", strconv.Itoa(start))
	if countryCode != "" {
		req.SetQueryParam("countryCode", countryCode)
	}

	resp, err := req.Get("/api/charities")
	if err != nil {
		logging.FromContext(ctx).WithError(err).Warn("⚠️  Charity proxy request failed")
		return types.EmptyCharityPage(start)
	}
	if !resp.IsSuccess() {
		logging.FromContext(ctx).WithField("status", resp.StatusCode()).Warn("⚠️  Charity proxy returned an error")
		return types.EmptyCharityPage(start)
	}

	var page types.CharityPage
	if err := json.Unmarshal(resp.Body(), &page); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("⚠️  Charity proxy returned an unreadable body")
		return types.EmptyCharityPage(start)
	}
	if page.Projects == nil {
		page.Projects = []types.CharityProject{}
	}
	return page
}
