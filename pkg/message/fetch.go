package message

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/ddcharts/pkg/buildinfo"
	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/observability"
)

// MaxFetchSize bounds the body read by Fetch.
const MaxFetchSize = 10 << 20

// DefaultFetchTimeout applies when the client has no timeout of its own.
const DefaultFetchTimeout = 30 * time.Second

// Fetch GETs a message from rawURL. It makes exactly one attempt: transport
// errors, non-2xx responses and oversized bodies fail with FETCH_FAILED.
// A nil client uses a client with DefaultFetchTimeout.
func Fetch(ctx context.Context, client *http.Client, rawURL string) (Message, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return Message{}, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Message{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse url")
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, u.Host, u.Path)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Message{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, u.Host, u.Path, err)
		return Message{}, errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch %s", u.Redacted())
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Message{}, errors.New(errors.ErrCodeFetchFailed, "fetch %s: %s", u.Redacted(), resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchSize+1))
	if err != nil {
		return Message{}, errors.Wrap(errors.ErrCodeFetchFailed, err, "read %s", u.Redacted())
	}
	if len(body) > MaxFetchSize {
		return Message{}, errors.New(errors.ErrCodeFetchFailed, "fetch %s: body exceeds %s", u.Redacted(), byteSize(MaxFetchSize))
	}
	return Decode(body)
}

func byteSize(n int) string {
	return fmt.Sprintf("%d MiB", n>>20)
}
