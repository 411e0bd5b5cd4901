package clients

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"recipe-giving/types"
)

// DefaultGeoJSURL is the free IP geolocation service
const DefaultGeoJSURL = "https://get.geojs.io"

// GeoJSClient looks up the country of an IP address
type GeoJSClient struct {
	http *resty.Client
}

func NewGeoJSClient(baseURL string) *GeoJSClient {
	if baseURL == "" {
		baseURL = DefaultGeoJSURL
	}
	return &GeoJSClient{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(5 * time.Second),
	}
}

// Locate geolocates ip. Empty, loopback and private addresses are looked up
// as the server's own address.
func (c *GeoJSClient) Locate(ctx context.Context, ip string) (*types.GeoIPResponse, error) {
	path := "/v1/ip/geo.json"
	if isPublicIP(ip) {
		path = "/v1/ip/geo/" + ip + ".json"
	}

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call geolocation service")
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("geolocation service returned status %d", resp.StatusCode())
	}

	var geo types.GeoIPResponse
	if err := json.Unmarshal(resp.Body(), &geo); err != nil {
		return nil, errors.Wrap(err, "failed to decode geolocation response")
	}
	return &geo, nil
}

func isPublicIP(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return false
	}
	return !(parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() ||
		parsed.IsLinkLocalUnicast() || parsed.IsLinkLocalMulticast())
}
