package loader

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// DefaultMaxDocumentSize bounds a remote document when Options leaves it unset
const DefaultMaxDocumentSize = 32 << 20

// Options tune how documents are read
type Options struct {
	// HTTPClient fetches remote documents; a client with three retries is
	// used when nil.
	HTTPClient *retryablehttp.Client
	Logger     *zap.Logger
	// MaxDocumentSize is the largest remote document accepted, in bytes
	MaxDocumentSize int64
}

func (o Options) maxSize() int64 {
	if o.MaxDocumentSize <= 0 {
		return DefaultMaxDocumentSize
	}
	return o.MaxDocumentSize
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// IsRemote reports whether location is an http(s) URL
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Read returns the raw content of a local file or an http(s) URL. A remote
// document that does not answer 200 after the retries fails.
func Read(ctx context.Context, location string, opts Options) ([]byte, error) {
	if !IsRemote(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", location)
		}
		return data, nil
	}

	client := opts.HTTPClient
	if client == nil {
		client = NewHTTPClient(opts.logger())
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid URL %s", location)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", location)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("failed to fetch %s: unexpected status %s", location, resp.Status)
	}
	limit := opts.maxSize()
	if resp.ContentLength > limit {
		return nil, errors.Newf("failed to fetch %s: document of %d bytes exceeds the %d byte limit", location, resp.ContentLength, limit)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response of %s", location)
	}
	if int64(len(data)) > limit {
		return nil, errors.Newf("failed to fetch %s: document exceeds the %d byte limit", location, limit)
	}
	opts.logger().Debug("fetched remote schema",
		zap.String("url", location),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))
	return data, nil
}

// NewHTTPClient returns a retrying client that logs through logger
func NewHTTPClient(logger *zap.Logger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = leveledLogger{logger.Sugar()}
	return client
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
