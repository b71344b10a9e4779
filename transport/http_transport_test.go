package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hello-rpc/internal/stubpeer"
	"hello-rpc/rpcerr"
)

const httpRequest = `{"method":"HelloService.Hello","params":["John"],"id":1}`

func startHTTPPeer(t *testing.T, status int, reply stubpeer.Replier) (*stubpeer.HTTPPeer, string) {
	t.Helper()
	peer := stubpeer.NewHTTPPeer(status, reply)
	srv := httptest.NewServer(peer.Handler())
	t.Cleanup(srv.Close)
	return peer, srv.URL + "/hello"
}

func TestHTTPCallOK(t *testing.T) {
	const reply = `{"result":"hi","id":1}`
	peer, url := startHTTPPeer(t, http.StatusOK, stubpeer.Fixed(reply))

	got, err := CallHTTP(context.Background(), url, []byte(httpRequest))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != reply {
		t.Fatalf("expect %s, got %s", reply, got)
	}
	if peer.ContentType() != "application/json" {
		t.Fatalf("expect application/json, got %q", peer.ContentType())
	}
	if reqs := peer.Requests(); len(reqs) != 1 || string(reqs[0]) != httpRequest {
		t.Fatalf("peer saw %q", reqs)
	}
}

func TestHTTPCallStatusStrict(t *testing.T) {
	_, url := startHTTPPeer(t, http.StatusInternalServerError, stubpeer.Fixed(`{"error":"boom"}`))

	_, err := CallHTTP(context.Background(), url, []byte(httpRequest))
	var statusErr *rpcerr.HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expect HTTPStatusError, got %v", err)
	}
	if statusErr.StatusCode != 500 {
		t.Fatalf("expect 500, got %d", statusErr.StatusCode)
	}
	if string(statusErr.Body) != `{"error":"boom"}` {
		t.Fatalf("unexpected body %s", statusErr.Body)
	}
}

func TestHTTPCallStatusLenient(t *testing.T) {
	const reply = `{"error":"boom"}`
	_, url := startHTTPPeer(t, http.StatusInternalServerError, stubpeer.Fixed(reply))

	tr := NewHTTPTransport(WithStrictStatus(false))
	status, got, err := tr.Post(context.Background(), url, []byte(httpRequest))
	if err != nil {
		t.Fatalf("lenient transport must not fail, got %v", err)
	}
	if status != 500 {
		t.Fatalf("expect status 500, got %d", status)
	}
	if string(got) != reply {
		t.Fatalf("expect body unchanged, got %s", got)
	}
}

func TestHTTPCallNotFoundRoute(t *testing.T) {
	_, url := startHTTPPeer(t, http.StatusOK, stubpeer.Fixed(`{}`))

	_, err := CallHTTP(context.Background(), url+"/missing", []byte(httpRequest))
	var statusErr *rpcerr.HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expect 404 HTTPStatusError, got %v", err)
	}
}

func TestHTTPCallNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/hello"
	srv.Close()

	_, err := CallHTTP(context.Background(), url, []byte(httpRequest))
	var netErr *rpcerr.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expect NetworkError, got %v", err)
	}
}

func TestHTTPCallTimeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := NewHTTPTransport().Call(ctx, srv.URL, []byte(httpRequest))
	if !errors.Is(err, rpcerr.ErrReadTimeout) {
		t.Fatalf("expect ErrReadTimeout, got %v", err)
	}
}
