package transport

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"

	"hello-rpc/rpcerr"
)

// HTTPTransport POSTs one JSON body per call. HTTP delimits the reply itself, so the
// whole body is returned and no truncation can occur.
type HTTPTransport struct {
	opts   *Options
	client *http.Client
}

func NewHTTPTransport(options ...Option) *HTTPTransport {
	opts := buildOptions(options)
	client := opts.HTTPClient
	if client == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.DialContext = (&net.Dialer{Timeout: opts.DialTimeout}).DialContext
		tr.ResponseHeaderTimeout = opts.ReadTimeout
		client = &http.Client{Transport: tr}
	}
	return &HTTPTransport{opts: opts, client: client}
}

// CallHTTP performs one POST with default options: status checking on, bounded waits.
func CallHTTP(ctx context.Context, url string, request []byte) ([]byte, error) {
	return NewHTTPTransport().Call(ctx, url, request)
}

// Call POSTs request to url and returns the response body.
func (t *HTTPTransport) Call(ctx context.Context, url string, request []byte) ([]byte, error) {
	_, body, err := t.Post(ctx, url, request)
	return body, err
}

// Exchange is Call under the Transport interface.
func (t *HTTPTransport) Exchange(ctx context.Context, url string, request []byte) ([]byte, error) {
	return t.Call(ctx, url, request)
}

// Post is Call that also reports the status code. With strict status off a non-2xx
// reply is returned with a nil error.
func (t *HTTPTransport) Post(ctx context.Context, url string, request []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(request))
	if err != nil {
		return 0, nil, &rpcerr.NetworkError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, &rpcerr.NetworkError{URL: url, Err: classify(ctx, "post", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &rpcerr.NetworkError{URL: url, Err: classify(ctx, "read body", err)}
	}

	t.opts.Logger.Debug("http reply",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)

	if t.opts.StrictStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return resp.StatusCode, body, &rpcerr.HTTPStatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return resp.StatusCode, body, nil
}
