// Package assets fetches and decodes images off the update loop.
//
// Load starts a fetch in the background; finished images queue up until the
// loop collects them with Poll. Images are decoded into image.Image values so
// the loop can upload them to the GPU itself.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"chosenoffset.com/plaza/internal/logging"
)

// ErrUnsupportedRef is returned for refs the loader cannot resolve
var ErrUnsupportedRef = errors.New("unsupported asset reference")

// maxAssetBytes caps a single download
const maxAssetBytes = 32 << 20

// Result is one finished load
type Result struct {
	Ref   string
	Image image.Image
	Bytes int
	Err   error
}

// Loader fetches images with bounded concurrency
type Loader struct {
	client *http.Client
	base   *url.URL
	log    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sizedwaitgroup.SizedWaitGroup

	results chan Result
}

// NewLoader creates a loader. Relative refs resolve against baseURL when it
// is set and are read from disk otherwise.
func NewLoader(baseURL string, maxConcurrent int, timeout time.Duration, logger *zap.Logger) (*Loader, error) {
	var base *url.URL
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse asset base url: %w", err)
		}
		base = u
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		client:  &http.Client{Timeout: timeout},
		base:    base,
		log:     logging.OrNop(logger),
		ctx:     ctx,
		cancel:  cancel,
		wg:      sizedwaitgroup.New(maxConcurrent),
		results: make(chan Result, 256),
	}, nil
}

// Load starts fetching ref. It never blocks the caller.
func (l *Loader) Load(ref string) {
	go func() {
		if err := l.wg.AddWithContext(l.ctx); err != nil {
			return
		}
		defer l.wg.Done()

		start := time.Now()
		img, n, err := l.fetch(ref)
		if err != nil {
			err = fmt.Errorf("load %s: %w", ref, err)
		} else {
			l.log.Debug("asset loaded",
				zap.String("ref", shorten(ref)),
				zap.Int("bytes", n),
				zap.Duration("took", time.Since(start)))
		}

		select {
		case l.results <- Result{Ref: ref, Image: img, Bytes: n, Err: err}:
		case <-l.ctx.Done():
		}
	}()
}

// Poll hands every finished load to fn without blocking. It returns the
// number of results delivered.
func (l *Loader) Poll(fn func(Result)) int {
	n := 0
	for {
		select {
		case r := <-l.results:
			fn(r)
			n++
		default:
			return n
		}
	}
}

// Close abandons outstanding loads and waits for their goroutines
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
}

func (l *Loader) fetch(ref string) (image.Image, int, error) {
	data, err := l.read(ref)
	if err != nil {
		return nil, 0, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, len(data), fmt.Errorf("decode: %w", err)
	}
	return img, len(data), nil
}

func (l *Loader) read(ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURI(ref)
	}

	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedRef, err)
	}
	switch u.Scheme {
	case "http", "https":
		return l.get(u.String())
	case "file":
		return os.ReadFile(u.Path)
	case "":
		if l.base == nil {
			return os.ReadFile(ref)
		}
		resolved := l.base.ResolveReference(u)
		if resolved.Scheme == "file" {
			return os.ReadFile(resolved.Path)
		}
		return l.get(resolved.String())
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedRef, u.Scheme)
	}
}

func (l *Loader) get(rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(l.ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
}

// decodeDataURI handles data:[<mediatype>][;base64],<payload>
func decodeDataURI(ref string) ([]byte, error) {
	comma := strings.IndexByte(ref, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: data uri without payload", ErrUnsupportedRef)
	}
	meta, payload := ref[len("data:"):comma], ref[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data uri: %w", err)
		}
		return b, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data uri: %w", err)
	}
	return []byte(s), nil
}

// shorten keeps data URIs out of log lines
func shorten(ref string) string {
	if len(ref) > 64 {
		return ref[:61] + "..."
	}
	return ref
}
