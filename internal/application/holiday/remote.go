package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"planner/pkg/httpclient"
	"strings"
)

const maxRemoteBody = 1 << 20

// RemoteSource загружает праздники года из внешнего JSON: {"YYYY-MM-DD": "название"}.
// В URL подставляется год вместо "{year}".
type RemoteSource struct {
	client httpclient.HTTPClient
	url    string
}

func NewRemoteSource(client httpclient.HTTPClient, url string) *RemoteSource {
	return &RemoteSource{client: client, url: url}
}

func (r *RemoteSource) Fetch(ctx context.Context, year int) (Table, error) {
	url := strings.ReplaceAll(r.url, "{year}", fmt.Sprint(year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build holidays request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch holidays: unexpected status %d", resp.StatusCode)
	}

	var tbl Table
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRemoteBody)).Decode(&tbl); err != nil {
		return nil, fmt.Errorf("decode holidays: %w", err)
	}
	if err := tbl.validate(); err != nil {
		return nil, err
	}
	return tbl, nil
}
