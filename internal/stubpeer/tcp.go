package stubpeer

import (
	"bufio"
	"encoding/json"
	"net"
	"strconv"
	"sync"

	"hello-rpc/protocol"
)

// TCPPeer accepts connections, reads one request per connection and writes one reply.
type TCPPeer struct {
	listener net.Listener
	framing  protocol.Framing
	reply    Replier
	keepOpen bool

	mu       sync.Mutex
	requests [][]byte
	wg       sync.WaitGroup
}

type TCPOption func(*TCPPeer)

// WithFraming makes the peer read and write with f instead of raw JSON.
func WithFraming(f protocol.Framing) TCPOption {
	return func(p *TCPPeer) { p.framing = f }
}

// WithKeepOpen leaves the connection open after the reply until the client closes it.
func WithKeepOpen() TCPOption {
	return func(p *TCPPeer) { p.keepOpen = true }
}

// StartTCP listens on a random loopback port.
func StartTCP(reply Replier, options ...TCPOption) (*TCPPeer, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	p := &TCPPeer{listener: ln, reply: reply}
	for _, o := range options {
		o(p)
	}
	p.wg.Add(1)
	go p.acceptLoop()
	return p, nil
}

func (p *TCPPeer) Addr() string {
	return p.listener.Addr().String()
}

func (p *TCPPeer) Host() string {
	host, _, _ := net.SplitHostPort(p.Addr())
	return host
}

func (p *TCPPeer) Port() int {
	_, port, _ := net.SplitHostPort(p.Addr())
	n, _ := strconv.Atoi(port)
	return n
}

// Requests returns the request bodies received so far.
func (p *TCPPeer) Requests() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.requests...)
}

func (p *TCPPeer) Close() error {
	err := p.listener.Close()
	p.wg.Wait()
	return err
}

func (p *TCPPeer) acceptLoop() {
	defer p.wg.Done()
	for {
		conn, err := p.listener.Accept()
		if err != nil {
			return
		}
		p.wg.Add(1)
		go p.handleConn(conn)
	}
}

func (p *TCPPeer) handleConn(conn net.Conn) {
	defer p.wg.Done()
	defer conn.Close()

	request, err := p.readRequest(conn)
	if err != nil {
		return
	}
	p.mu.Lock()
	p.requests = append(p.requests, request)
	p.mu.Unlock()

	frame, err := protocol.Frame(p.framing, p.reply(request))
	if err != nil {
		return
	}
	if _, err := conn.Write(frame); err != nil {
		return
	}
	if p.keepOpen {
		// Block until the client hangs up.
		_, _ = conn.Read(make([]byte, 1))
	}
}

func (p *TCPPeer) readRequest(conn net.Conn) ([]byte, error) {
	if p.framing == protocol.FramingLengthPrefix {
		return protocol.Decode(conn, p.framing, 1<<20, false)
	}
	// Raw and newline requests are both one JSON value on the stream.
	var raw json.RawMessage
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
