// Package source loads WebIDL sources from disk or over HTTP.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"
)

var remotePattern = regexp.MustCompile(`(?i)^https?://.+`)

// IsRemote reports whether src names an http or https URL.
func IsRemote(src string) bool {
	return remotePattern.MatchString(src)
}

// Document is the raw content of one source.
type Document struct {
	Source      string
	Remote      bool
	ContentType string // empty for local files
	Data        []byte
}

// FetchError reports a source that could not be read.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

const maxRedirects = 10

// Fetcher reads local files and downloads specification documents.
type Fetcher struct {
	httpClient *http.Client
	maxBody    int64
	limit      int
	validate   URLValidator
	log        *slog.Logger
}

func NewFetcher(timeout time.Duration, maxBody int64, limit int, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if limit <= 0 {
		limit = 1
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBody: maxBody,
		limit:   limit,
		log:     log,
	}
}

// WithURLValidator makes f check every remote URL with v, redirect targets
// included. Without one, any http(s) URL is fetched.
func (f *Fetcher) WithURLValidator(v URLValidator) *Fetcher {
	f.validate = v
	f.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", len(via))
		}
		if err := v(req.URL.String()); err != nil {
			return fmt.Errorf("redirect blocked: %w", err)
		}
		return nil
	}
	return f
}

// Fetch loads a single source. Errors are always *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, src string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Source: src, Err: err}
	}
	if IsRemote(src) {
		return f.fetchRemote(ctx, src)
	}
	return f.readLocal(src)
}

func (f *Fetcher) readLocal(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &FetchError{Source: path, Err: err}
	}
	defer file.Close()

	data, err := f.readBounded(file)
	if err != nil {
		return nil, &FetchError{Source: path, Err: err}
	}
	return &Document{Source: path, Data: data}, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, url string) (*Document, error) {
	if f.validate != nil {
		if err := f.validate(url); err != nil {
			return nil, &FetchError{Source: url, Err: fmt.Errorf("url blocked: %w", err)}
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Source: url, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Accept", "text/html, text/plain;q=0.9, */*;q=0.5")

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, &FetchError{Source: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &FetchError{Source: url, Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))}
	}

	data, err := f.readBounded(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: url, Err: err}
	}
	return &Document{
		Source:      url,
		Remote:      true,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (f *Fetcher) readBounded(r io.Reader) ([]byte, error) {
	if f.maxBody <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > f.maxBody {
		return nil, fmt.Errorf("exceeds max size (%d bytes)", f.maxBody)
	}
	return data, nil
}

// FetchAll loads every source concurrently. A source that fails is logged
// and left out; the others still load. Documents come back in input order.
func (f *Fetcher) FetchAll(ctx context.Context, sources []string) ([]*Document, []*FetchError) {
	docs := make([]*Document, len(sources))
	errs := make([]*FetchError, len(sources))

	var g errgroup.Group
	g.SetLimit(f.limit)
	for i, src := range sources {
		g.Go(func() error {
			start := time.Now()
			doc, err := f.Fetch(ctx, src)
			if err != nil {
				f.log.Error("fetch failed", "source", src, "error", err)
				var fe *FetchError
				if !errors.As(err, &fe) {
					fe = &FetchError{Source: src, Err: err}
				}
				errs[i] = fe
				return nil
			}
			f.log.Debug("fetched source", "source", src, "bytes", len(doc.Data), "duration_ms", time.Since(start).Milliseconds())
			docs[i] = doc
			return nil
		})
	}
	_ = g.Wait()

	var (
		ok     []*Document
		failed []*FetchError
	)
	for i := range sources {
		if docs[i] != nil {
			ok = append(ok, docs[i])
		}
		if errs[i] != nil {
			failed = append(failed, errs[i])
		}
	}
	return ok, failed
}

// Close releases idle HTTP connections.
func (f *Fetcher) Close() {
	f.httpClient.CloseIdleConnections()
}
