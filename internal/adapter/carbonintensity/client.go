package carbonintensity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/uk-climate-etl/internal/config"
	"github.com/couchcryptid/uk-climate-etl/internal/domain"
)

const requestTimeout = 15 * time.Second

// Client fetches per-region carbon data from the National Grid Carbon
// Intensity API. It implements pipeline.EmissionsSource.
type Client struct {
	baseURL    string
	regionMax  int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Carbon Intensity client covering region ids 1..N.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.CarbonBaseURL,
		regionMax:  cfg.CarbonRegionMax,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// FetchEmissions sweeps every region id. Per-region failures are skipped with
// a log; an empty result is not an error because emissions only enrich the
// merge.
func (c *Client) FetchEmissions(ctx context.Context) (map[int]domain.EmissionsRecord, error) {
	records := make(map[int]domain.EmissionsRecord, c.regionMax)
	for id := 1; id <= c.regionMax; id++ {
		rec, ok, err := c.fetchRegion(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("region fetch failed, skipping", "region_id", id, "error", err)
			continue
		}
		if !ok {
			continue
		}
		records[id] = rec
	}
	return records, nil
}

// fetchRegion returns the first reported half-hour window for a region,
// flattened out of the API envelope. ok is false when the region reported no
// window.
func (c *Client) fetchRegion(ctx context.Context, id int) (domain.EmissionsRecord, bool, error) {
	fullURL := fmt.Sprintf("%s/regional/regionid/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.EmissionsRecord{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.EmissionsRecord{}, false, fmt.Errorf("regional request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		return domain.EmissionsRecord{}, false, fmt.Errorf("carbon intensity API error: status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return domain.EmissionsRecord{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 || len(env.Data[0].Data) == 0 {
		return domain.EmissionsRecord{}, false, nil
	}

	w := env.Data[0].Data[0]
	return domain.EmissionsRecord{
		From:          w.From,
		To:            w.To,
		Intensity:     w.Intensity,
		GenerationMix: w.GenerationMix,
	}, true, nil
}

// Carbon Intensity API response types. The dnoregion/shortname metadata is
// dropped during flattening; merged records carry the catalog name instead.
type envelope struct {
	Data []regionData `json:"data"`
}

type regionData struct {
	RegionID  int      `json:"regionid"`
	DNORegion string   `json:"dnoregion"`
	Shortname string   `json:"shortname"`
	Data      []window `json:"data"`
}

type window struct {
	From          string             `json:"from"`
	To            string             `json:"to"`
	Intensity     *domain.Intensity  `json:"intensity"`
	GenerationMix []domain.FuelShare `json:"generationmix"`
}
