package stubpeer

import (
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// HTTPPeer serves POST /hello with a fixed status and the replier's body.
type HTTPPeer struct {
	Status int
	Reply  Replier

	mu          sync.Mutex
	contentType string
	requests    [][]byte
}

// NewHTTPPeer builds the peer; mount Handler() on an httptest.Server.
func NewHTTPPeer(status int, reply Replier) *HTTPPeer {
	return &HTTPPeer{Status: status, Reply: reply}
}

func (p *HTTPPeer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/hello", p.serveHello)
	return r
}

func (p *HTTPPeer) serveHello(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	p.mu.Lock()
	p.contentType = r.Header.Get("Content-Type")
	p.requests = append(p.requests, body)
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.Status)
	_, _ = w.Write(p.Reply(body))
}

// ContentType returns the Content-Type of the last request.
func (p *HTTPPeer) ContentType() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.contentType
}

func (p *HTTPPeer) Requests() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.requests...)
}
