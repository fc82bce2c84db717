package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/TobiSchelling/sportspage/internal/render"
)

// Loader fetches the raw sports document.
type Loader interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileLoader reads the artifact from disk.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(l.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not found", render.ErrNoArtifact, l.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", l.Path, err)
	}
	return data, nil
}

// HTTPLoader fetches the artifact with a GET. Any status other than 200 is
// treated as the artifact being unavailable.
type HTTPLoader struct {
	URL    string
	Client *http.Client
}

// NewHTTPLoader returns an HTTPLoader with a bounded client.
func NewHTTPLoader(url string) HTTPLoader {
	return HTTPLoader{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (l HTTPLoader) Load(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", l.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s returned %d", render.ErrNoArtifact, l.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", l.URL, err)
	}
	return data, nil
}
