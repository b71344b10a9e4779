// Package protocol implements the message framing used on the socket binding.
//
// TCP is a byte stream, so a receiver needs some way to know where a reply ends.
// Three framings are supported:
//
//	raw:           {"jsonrpc":"2.0",...}            written once, read once into a fixed buffer
//	newline:       {"jsonrpc":"2.0",...}\n          read until the terminator
//	length-prefix: ┌─────────┬───────────────┐
//	               │ bodyLen │    body ...    │
//	               │ uint32  │ bodyLen bytes  │
//	               └─────────┴───────────────┘
//
// Raw is the historical behavior and stays the default: the read does not loop and a
// reply larger than the buffer is silently cut. Strict raw reads report ErrTruncated
// instead. Newline and length-prefix are explicit protocol changes that the peer must
// speak too; newline matches Go's net/rpc/jsonrpc servers, which terminate each reply
// with '\n'.
package protocol

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"hello-rpc/rpcerr"
)

// PrefixSize is the length of the big-endian body length header.
const PrefixSize = 4

// Framing selects how a message is delimited on the stream.
type Framing byte

const (
	FramingRaw          Framing = 0 // No delimiter, single read
	FramingNewline      Framing = 1 // '\n' terminated
	FramingLengthPrefix Framing = 2 // 4-byte big-endian length, then body
)

func (f Framing) String() string {
	switch f {
	case FramingRaw:
		return "raw"
	case FramingNewline:
		return "newline"
	case FramingLengthPrefix:
		return "length-prefix"
	}
	return fmt.Sprintf("framing(%d)", byte(f))
}

// ParseFraming maps a configuration value to a Framing.
func ParseFraming(s string) (Framing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw", "none":
		return FramingRaw, nil
	case "newline", "line":
		return FramingNewline, nil
	case "length-prefix", "length", "prefix":
		return FramingLengthPrefix, nil
	}
	return FramingRaw, fmt.Errorf("unsupported framing: %q", s)
}

// Frame returns the bytes to put on the wire for body.
func Frame(f Framing, body []byte) ([]byte, error) {
	switch f {
	case FramingRaw:
		return body, nil
	case FramingNewline:
		if bytes.IndexByte(body, '\n') >= 0 {
			return nil, errors.New("protocol: newline framing cannot carry a body containing '\\n'")
		}
		buf := make([]byte, 0, len(body)+1)
		buf = append(buf, body...)
		return append(buf, '\n'), nil
	case FramingLengthPrefix:
		buf := make([]byte, PrefixSize+len(body))
		binary.BigEndian.PutUint32(buf[:PrefixSize], uint32(len(body)))
		copy(buf[PrefixSize:], body)
		return buf, nil
	}
	return nil, fmt.Errorf("protocol: unsupported framing %s", f)
}

// Decode reads one message from r. maxSize bounds the reply: for raw framing it is the
// single read buffer, for the other framings it is the largest accepted body.
func Decode(r io.Reader, f Framing, maxSize int, strict bool) ([]byte, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("protocol: buffer size must be positive, got %d", maxSize)
	}
	switch f {
	case FramingRaw:
		return readOnce(r, maxSize, strict)
	case FramingNewline:
		return readLine(r, maxSize)
	case FramingLengthPrefix:
		return readPrefixed(r, maxSize)
	}
	return nil, fmt.Errorf("protocol: unsupported framing %s", f)
}

// readOnce issues exactly one read. In strict mode a chunk without a '\n' terminator must
// be followed by end-of-stream, otherwise the reply was larger than the buffer.
func readOnce(r io.Reader, maxSize int, strict bool) ([]byte, error) {
	buf := make([]byte, maxSize)
	n, err := r.Read(buf)
	if n == 0 {
		if err == nil {
			err = io.ErrNoProgress
		}
		return nil, err
	}
	chunk := buf[:n]
	if !strict || err != nil || bytes.IndexByte(chunk, '\n') >= 0 {
		return chunk, nil
	}

	probe := make([]byte, 1)
	for {
		m, perr := r.Read(probe)
		if m > 0 {
			return nil, fmt.Errorf("protocol: reply exceeds %d byte buffer: %w", maxSize, rpcerr.ErrTruncated)
		}
		if errors.Is(perr, io.EOF) {
			return chunk, nil
		}
		if perr != nil {
			return nil, perr
		}
	}
}

func readLine(r io.Reader, maxSize int) ([]byte, error) {
	// One extra byte for the terminator itself.
	br := bufio.NewReaderSize(r, maxSize+1)
	line, err := br.ReadSlice('\n')
	switch {
	case err == nil:
		line = bytes.TrimSuffix(line[:len(line)-1], []byte{'\r'})
	case errors.Is(err, bufio.ErrBufferFull):
		return nil, fmt.Errorf("protocol: line exceeds %d bytes: %w", maxSize, rpcerr.ErrTruncated)
	case errors.Is(err, io.EOF) && len(line) > 0:
		// End-of-stream delimits the last message.
	default:
		return nil, err
	}
	// bufio never goes below 16 bytes, so small limits are enforced here.
	if len(line) > maxSize {
		return nil, fmt.Errorf("protocol: line exceeds %d bytes: %w", maxSize, rpcerr.ErrTruncated)
	}
	return append([]byte(nil), line...), nil
}

func readPrefixed(r io.Reader, maxSize int) ([]byte, error) {
	header := make([]byte, PrefixSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	bodyLen := binary.BigEndian.Uint32(header)
	if uint64(bodyLen) > uint64(maxSize) {
		return nil, fmt.Errorf("protocol: declared body of %d bytes exceeds %d: %w", bodyLen, maxSize, rpcerr.ErrTruncated)
	}
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}
