package overlay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const (
	maxTrackBytes = 64 << 10
	maxCoverBytes = 8 << 20
)

// Fetcher retrieves feed payloads. Implementations must be safe for
// concurrent use.
type Fetcher interface {
	FetchTrack(ctx context.Context, url string) (Track, error)
	FetchCover(ctx context.Context, url string) ([]byte, string, error)
}

type HTTPFetcher struct {
	http      *http.Client
	userAgent string
}

func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

type nowPlayingResponse struct {
	Title  looseString  `json:"title"`
	Artist looseString  `json:"artist"`
	Album  looseString  `json:"album"`
	Year   looseString  `json:"year"`
	Cover  string       `json:"cover"`
	Time   looseSeconds `json:"time"`
}

func (f *HTTPFetcher) FetchTrack(ctx context.Context, url string) (Track, error) {
	body, _, err := f.get(ctx, url, maxTrackBytes)
	if err != nil {
		return Track{}, err
	}
	var resp nowPlayingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Track{}, fmt.Errorf("decode response: %w", err)
	}
	return Track{
		Title:     string(resp.Title),
		Artist:    string(resp.Artist),
		Album:     string(resp.Album),
		Year:      string(resp.Year),
		Remaining: time.Duration(resp.Time),
		CoverURL:  resp.Cover,
	}, nil
}

func (f *HTTPFetcher) FetchCover(ctx context.Context, url string) ([]byte, string, error) {
	return f.get(ctx, url, maxCoverBytes)
}

func (f *HTTPFetcher) get(ctx context.Context, url string, limit int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("feed %s returned status %d", url, resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(resp.Body, limit)); err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return buf.Bytes(), resp.Header.Get("Content-Type"), nil
}

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	if string(b) == "null" {
		*s = ""
		return nil
	}
	*s = looseString(b)
	return nil
}

// looseSeconds decodes a seconds count given as a number or numeric string.
type looseSeconds time.Duration

func (d *looseSeconds) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if raw == "null" {
		*d = 0
		return nil
	}
	if len(raw) >= 2 && raw[0] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("seconds %q: %w", raw, err)
	}
	*d = looseSeconds(secs * float64(time.Second))
	return nil
}
