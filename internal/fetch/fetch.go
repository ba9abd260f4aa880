// Package fetch provides the default Fetcher implementation consumed by
// the resolver and planner: HTTP retrieval with retry, hash verification,
// worker-pool parallelism and Prometheus instrumentation.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/quasar/launchcore/internal/errs"
	"github.com/quasar/launchcore/internal/hash"
	"github.com/quasar/launchcore/internal/request"
)

// DefaultConcurrency is the worker count used when Client.Concurrency is
// unset. It is higher than the teacher's download manager default of 4
// because asset batches are larger and finer-grained than library batches.
const DefaultConcurrency = 8

// Client is the default Fetcher: it downloads metadata requests into
// memory and file requests to their destination path, verifying the
// result against the request's expected hash when one is present.
type Client struct {
	HTTPClient  *http.Client
	Concurrency int

	bytesTotal    prometheus.Counter
	requestsTotal *prometheus.CounterVec
	inflight      prometheus.Gauge
}

// New returns a Client with a retrying HTTP transport, registering its
// metrics against reg. A nil reg is a no-op, so core resolver/planner
// tests never need a Prometheus dependency.
func New(reg prometheus.Registerer) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = 5 * time.Minute

	c := &Client{
		HTTPClient:  retryClient.StandardClient(),
		Concurrency: DefaultConcurrency,
		bytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launchcore_fetch_bytes_total",
			Help: "Total bytes downloaded by the fetcher.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "launchcore_fetch_requests_total",
			Help: "Fetch requests by result.",
		}, []string{"result"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "launchcore_fetch_inflight",
			Help: "Fetch requests currently in flight.",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.bytesTotal, c.requestsTotal, c.inflight)
	}
	return c
}

// Fetch retrieves req's payload. File-backed requests (Library, Asset)
// are written to req.Path; metadata requests (MetaIndex, Index, Manifest,
// AssetIndex) are downloaded and verified via FetchBytes and the bytes are
// discarded, so callers that need the payload call FetchBytes directly.
func (c *Client) Fetch(ctx context.Context, req request.DownloadRequest) error {
	if req.IsFile() {
		_, err := c.fetchToFile(ctx, req)
		return err
	}
	_, err := c.FetchBytes(ctx, req)
	return err
}

// FetchBytes retrieves req's payload into memory, verifying it against
// req.HashHex when present. Used for MetaIndex/Index/Manifest/AssetIndex
// requests, whose payload the caller hands to resolve.Resolver.LoadReader.
func (c *Client) FetchBytes(ctx context.Context, req request.DownloadRequest) ([]byte, error) {
	c.inflight.Inc()
	defer c.inflight.Dec()

	data, err := c.download(ctx, req.URL)
	if err != nil {
		c.requestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if err := c.verify(req, data); err != nil {
		c.requestsTotal.WithLabelValues("hash_mismatch").Inc()
		return nil, err
	}
	c.bytesTotal.Add(float64(len(data)))
	c.requestsTotal.WithLabelValues("ok").Inc()
	return data, nil
}

func (c *Client) fetchToFile(ctx context.Context, req request.DownloadRequest) (int64, error) {
	c.inflight.Inc()
	defer c.inflight.Dec()

	data, err := c.download(ctx, req.URL)
	if err != nil {
		c.requestsTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	if err := c.verify(req, data); err != nil {
		c.requestsTotal.WithLabelValues("hash_mismatch").Inc()
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(req.Path), 0755); err != nil {
		return 0, fmt.Errorf("fetch %s: %w", req.URL, err)
	}
	if err := os.WriteFile(req.Path, data, 0644); err != nil {
		return 0, fmt.Errorf("fetch %s: %w", req.URL, err)
	}

	c.bytesTotal.Add(float64(len(data)))
	c.requestsTotal.WithLabelValues("ok").Inc()
	return int64(len(data)), nil
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return data, nil
}

// verify checks data against req.HashHex per req.HashAlgo. A mismatch
// after a fresh download is fatal; the fetcher does not retry silently.
func (c *Client) verify(req request.DownloadRequest, data []byte) error {
	if !req.HasHash() {
		return nil
	}
	switch req.HashAlgo() {
	case request.Sha1:
		want, err := hash.ParseSha1(req.HashHex)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", req.URL, err)
		}
		got, err := hash.SumSha1(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("fetch %s: %w", req.URL, err)
		}
		if got != want {
			return fmt.Errorf("fetch %s: %w: got %s want %s", req.URL, errs.ErrInvalidHash, got, want)
		}
	case request.Sha256:
		want, err := hash.ParseSha256(req.HashHex)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", req.URL, err)
		}
		got, err := hash.SumSha256(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("fetch %s: %w", req.URL, err)
		}
		if got != want {
			return fmt.Errorf("fetch %s: %w: got %s want %s", req.URL, errs.ErrInvalidHash, got, want)
		}
	}
	return nil
}

// FetchAllResult is one request's outcome from FetchAll.
type FetchAllResult struct {
	Request request.DownloadRequest
	Bytes   int64
	Err     error
}

// FetchAll drains reqs through a worker pool sized by c.Concurrency
// (DefaultConcurrency if unset), fetching file-backed requests to disk.
// Metadata requests should be fetched individually via FetchBytes so
// their payload can be routed back into the resolver.
func (c *Client) FetchAll(ctx context.Context, reqs []request.DownloadRequest) []FetchAllResult {
	results := make([]FetchAllResult, len(reqs))
	g, ctx := errgroup.WithContext(ctx)

	limit := c.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			n, err := c.fetchToFile(ctx, req)
			results[i] = FetchAllResult{Request: req, Bytes: n, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// FormatSpeed renders a byte rate for human-readable progress display.
func FormatSpeed(bytesPerSec float64) string {
	return humanize.Bytes(uint64(bytesPerSec)) + "/s"
}
