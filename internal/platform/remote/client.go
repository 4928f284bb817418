package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"userdir/internal/domain"
	"userdir/internal/platform/logging"
	"userdir/internal/platform/metrics"
)

const (
	// DefaultTimeout bounds one corpus request end to end.
	DefaultTimeout = 10 * time.Second
	// DefaultMinLatency is the minimum visible latency for every call.
	DefaultMinLatency = time.Second

	maxCorpusBytes    = 8 << 20
	maxErrorBodyBytes = 512
)

// Options configures a Client.
type Options struct {
	URL        string
	Timeout    time.Duration
	MinLatency time.Duration
	HTTPClient *http.Client
	Logger     *zap.SugaredLogger
}

// Client is the remote data gateway. Every call fetches the whole corpus.
type Client struct {
	url        string
	minLatency time.Duration
	http       *http.Client
	log        *zap.SugaredLogger
}

// New builds a gateway client. A zero Timeout means DefaultTimeout; a negative
// MinLatency disables the floor.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	floor := opts.MinLatency
	if floor < 0 {
		floor = 0
	}
	return &Client{
		url:        opts.URL,
		minLatency: floor,
		http:       hc,
		log:        logging.OrNop(opts.Logger),
	}
}

// FetchPage returns the page whose embedded page number equals page.
func (c *Client) FetchPage(ctx context.Context, page int) (domain.Page, error) {
	start := time.Now()
	corpus, err := c.fetchCorpus(ctx)
	var out domain.Page
	if err == nil {
		out, err = findPage(corpus, page)
	}
	c.finish(ctx, "fetch_page", start, err, "page", page)
	if err != nil {
		return domain.Page{}, err
	}
	return out, nil
}

// FetchUserByID scans every page for the first user with id.
func (c *Client) FetchUserByID(ctx context.Context, id int) (domain.User, error) {
	start := time.Now()
	corpus, err := c.fetchCorpus(ctx)
	var out domain.User
	if err == nil {
		out, err = findUser(corpus, id)
	}
	c.finish(ctx, "fetch_user", start, err, "id", id)
	if err != nil {
		return domain.User{}, err
	}
	return out, nil
}

func (c *Client) fetchCorpus(ctx context.Context) (domain.Corpus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Corpus{}, &NetworkError{Message: "Network error", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Corpus{}, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
		}
		return domain.Corpus{}, &NetworkError{
			Message: msg,
			Err:     fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var corpus domain.Corpus
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCorpusBytes)).Decode(&corpus); err != nil {
		return domain.Corpus{}, &NetworkError{Message: "Malformed response from user service", Err: err}
	}
	return corpus, nil
}

func transportError(err error) error {
	msg := "Network error"
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		msg = "Request timed out"
	} else if errors.Is(err, context.Canceled) {
		msg = "Request canceled"
	}
	return &NetworkError{Message: msg, Err: err}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// findPage matches on the embedded page field; key names are opaque.
func findPage(corpus domain.Corpus, page int) (domain.Page, error) {
	if page < 1 {
		return domain.Page{}, pageNotFound(page)
	}
	for _, key := range sortedKeys(corpus) {
		p := corpus.Users[key]
		if p.Page == page {
			p.Data = domain.CloneUsers(p.Data)
			if p.Data == nil {
				p.Data = []domain.User{}
			}
			return p, nil
		}
	}
	return domain.Page{}, pageNotFound(page)
}

func findUser(corpus domain.Corpus, id int) (domain.User, error) {
	for _, u := range flatten(corpus) {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, userNotFound(id)
}

// flatten concatenates every page's items ordered by page number.
func flatten(corpus domain.Corpus) []domain.User {
	keys := sortedKeys(corpus)
	var out []domain.User
	for _, key := range keys {
		out = append(out, corpus.Users[key].Data...)
	}
	return out
}

func sortedKeys(corpus domain.Corpus) []string {
	keys := make([]string, 0, len(corpus.Users))
	for key := range corpus.Users {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		pa, pb := corpus.Users[a].Page, corpus.Users[b].Page
		if pa != pb {
			return pa - pb
		}
		return strings.Compare(a, b)
	})
	return keys
}

// finish records metrics and logs, then holds the caller until the latency floor has elapsed.
func (c *Client) finish(ctx context.Context, op string, start time.Time, err error, kv ...interface{}) {
	elapsed := time.Since(start)
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "network_error"
	}
	metrics.ObserveRemote(op, outcome, elapsed)

	fields := append([]interface{}{"op", op, "outcome", outcome, "elapsed_ms", elapsed.Milliseconds()}, kv...)
	if err != nil && outcome == "network_error" {
		c.log.Warnw("remote request failed", append(fields, "error", err)...)
	} else {
		c.log.Debugw("remote request", fields...)
	}

	waitFloor(ctx, c.minLatency, start)
}

// waitFloor sleeps until floor has elapsed since start, or ctx is done.
func waitFloor(ctx context.Context, floor time.Duration, start time.Time) {
	remaining := floor - time.Since(start)
	if remaining <= 0 {
		return
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
