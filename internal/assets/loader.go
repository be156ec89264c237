// Package assets fetches the decorative pieces of the page: remote Lottie
// animations, the avatar image and the local background animation.
//
// Every lookup is memoized for the lifetime of the Loader and fails open:
// a timeout, a non-200 status or an unparseable body all come back as
// "absent" and are never reported to the caller as errors.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTimeout bounds every remote fetch.
const DefaultTimeout = 8 * time.Second

// maxBody caps how much of a remote response is read.
const maxBody = 10 << 20

// Image is a decoded remote image.
type Image struct {
	URL         string
	ContentType string
	Width       int
	Height      int
	Data        []byte
}

type kind int

const (
	kindJSON kind = iota
	kindImage
	kindFile
)

type cacheKey struct {
	kind  kind
	input string
}

// entry holds one memoized result. once guarantees a single fetch even when
// several requests ask for the same key at the same time.
type entry struct {
	once  sync.Once
	value any
	ok    bool
}

// Stats counts loader activity.
type Stats struct {
	Fetches int64 `json:"fetches"`
	Hits    int64 `json:"hits"`
	Absent  int64 `json:"absent"`
}

// Loader fetches and caches assets.
type Loader struct {
	client  *http.Client
	timeout time.Duration

	mu      sync.Mutex
	entries map[cacheKey]*entry

	fetches atomic.Int64
	hits    atomic.Int64
	absent  atomic.Int64
}

// New creates a Loader. A nil client uses http.DefaultClient and a
// non-positive timeout uses DefaultTimeout.
func New(client *http.Client, timeout time.Duration) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{
		client:  client,
		timeout: timeout,
		entries: make(map[cacheKey]*entry),
	}
}

// JSON fetches url and returns its body if it is valid JSON.
func (l *Loader) JSON(ctx context.Context, url string) (json.RawMessage, bool) {
	v, ok := l.lookup(cacheKey{kindJSON, url}, func() (any, error) {
		body, _, err := l.get(ctx, url)
		if err != nil {
			return nil, err
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("response is not valid JSON")
		}
		return json.RawMessage(body), nil
	})
	if !ok {
		return nil, false
	}
	return v.(json.RawMessage), true
}

// Image fetches url and returns it if it decodes as a PNG, JPEG or GIF.
func (l *Loader) Image(ctx context.Context, url string) (*Image, bool) {
	v, ok := l.lookup(cacheKey{kindImage, url}, func() (any, error) {
		body, _, err := l.get(ctx, url)
		if err != nil {
			return nil, err
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
		// The decoded format wins over whatever the server claimed.
		return &Image{
			URL:         url,
			ContentType: "image/" + format,
			Width:       cfg.Width,
			Height:      cfg.Height,
			Data:        body,
		}, nil
	})
	if !ok {
		return nil, false
	}
	return v.(*Image), true
}

// FileBase64 reads a local file and returns its contents base64 encoded.
func (l *Loader) FileBase64(path string) (string, bool) {
	v, ok := l.lookup(cacheKey{kindFile, path}, func() (any, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.EncodeToString(data), nil
	})
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Stats returns a snapshot of the loader counters.
func (l *Loader) Stats() Stats {
	return Stats{
		Fetches: l.fetches.Load(),
		Hits:    l.hits.Load(),
		Absent:  l.absent.Load(),
	}
}

func (l *Loader) lookup(key cacheKey, load func() (any, error)) (any, bool) {
	l.mu.Lock()
	e, cached := l.entries[key]
	if !cached {
		e = &entry{}
		l.entries[key] = e
	}
	l.mu.Unlock()

	if cached {
		l.hits.Add(1)
	}

	e.once.Do(func() {
		l.fetches.Add(1)
		v, err := load()
		if err != nil {
			l.absent.Add(1)
			log.Printf("asset %s unavailable: %v", key.input, err)
			return
		}
		e.value, e.ok = v, true
	})
	return e.value, e.ok
}

// get performs a single bounded GET and returns the body of a 200 response.
// The result is shared by every later caller, so the request is detached from
// the cancellation of whichever page load happened to trigger it.
func (l *Loader) get(ctx context.Context, url string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, "", fmt.Errorf("reading body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
