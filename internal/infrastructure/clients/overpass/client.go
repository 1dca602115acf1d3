package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/santegabon/carto-backend/internal/geo"
	"github.com/santegabon/carto-backend/internal/osm"
	"github.com/santegabon/carto-backend/pkg/config"
	apperrors "github.com/santegabon/carto-backend/pkg/errors"
)

// Client fetches raw health-site elements from the facility data source
type Client interface {
	FetchHealthSites(ctx context.Context) ([]osm.RawElement, error)
}

// HTTPClient queries an ordered list of Overpass mirrors. Mirrors are tried
// sequentially; there is no per-mirror backoff and no health state kept
// between calls. A failing mirror is simply skipped until the next fetch.
type HTTPClient struct {
	mirrors        []string
	attemptTimeout time.Duration
	httpClient     *http.Client
}

type overpassResponse struct {
	Elements []osm.RawElement `json:"elements"`
}

// NewClient creates a new Overpass client
func NewClient(cfg *config.OverpassConfig) *HTTPClient {
	return &HTTPClient{
		mirrors:        cfg.Mirrors,
		attemptTimeout: cfg.AttemptTimeout,
		httpClient:     &http.Client{},
	}
}

// FetchHealthSites posts the health-site query and decodes the first
// successful mirror response.
func (c *HTTPClient) FetchHealthSites(ctx context.Context) ([]osm.RawElement, error) {
	payload := url.Values{"data": {healthSitesQuery()}}.Encode()

	body, err := c.tryInOrder(ctx, payload)
	if err != nil {
		return nil, err
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewExternalError("failed to decode overpass response", err)
	}

	return parsed.Elements, nil
}

// tryInOrder posts the same payload to each mirror in order and returns the
// first successful body. Every failure is accumulated so the final error
// names all mirrors, not just the last one.
func (c *HTTPClient) tryInOrder(ctx context.Context, payload string) ([]byte, error) {
	if len(c.mirrors) == 0 {
		return nil, apperrors.NewExternalError("no overpass mirrors configured", nil)
	}

	var lastErr error
	failures := make([]string, 0, len(c.mirrors))

	for _, mirror := range c.mirrors {
		body, err := c.post(ctx, mirror, payload)
		if err == nil {
			return body, nil
		}

		lastErr = err
		failures = append(failures, fmt.Sprintf("%s: %v", mirror, err))
		log.Warn().Str("mirror", mirror).Err(err).Msg("overpass mirror failed, trying next")

		if ctx.Err() != nil {
			break
		}
	}

	return nil, apperrors.NewExternalError(
		fmt.Sprintf("all overpass mirrors failed: %s", strings.Join(failures, "; ")),
		lastErr,
	)
}

func (c *HTTPClient) post(ctx context.Context, endpoint, payload string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, strings.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// healthSitesQuery builds the Overpass QL payload, constrained to the
// national bounding box.
func healthSitesQuery() string {
	bbox := fmt.Sprintf("%g,%g,%g,%g",
		geo.NationalMinLat, geo.NationalMinLng, geo.NationalMaxLat, geo.NationalMaxLng)

	return fmt.Sprintf(`[out:json][timeout:90];
(
  nwr["amenity"~"hospital|clinic|pharmacy|doctors|dentist"](%s);
  nwr["healthcare"](%s);
  nwr["office"="government"]["name"~"[Ss]ant[ée]|CNAMGS|CNSS"](%s);
);
out center tags;`, bbox, bbox, bbox)
}
