package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"hello-rpc/rpcerr"
)

const reply = `{"id":1,"result":"Hello, John!","error":null}`

func TestFrameDecodeRoundTrip(t *testing.T) {
	for _, f := range []Framing{FramingRaw, FramingNewline, FramingLengthPrefix} {
		frame, err := Frame(f, []byte(reply))
		if err != nil {
			t.Fatalf("%s: Frame failed: %v", f, err)
		}
		body, err := Decode(bytes.NewReader(frame), f, 1024, true)
		if err != nil {
			t.Fatalf("%s: Decode failed: %v", f, err)
		}
		if string(body) != reply {
			t.Errorf("%s: body mismatch: got %s, want %s", f, body, reply)
		}
	}
}

func TestFrameLengthPrefixHeader(t *testing.T) {
	frame, err := Frame(FramingLengthPrefix, []byte("hello world"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(frame[:PrefixSize], []byte{0, 0, 0, 11}) {
		t.Fatalf("unexpected header: %v", frame[:PrefixSize])
	}
	if len(frame) != PrefixSize+11 {
		t.Fatalf("expect %d bytes, got %d", PrefixSize+11, len(frame))
	}
}

func TestRawLenientTruncatesSilently(t *testing.T) {
	large := strings.Repeat("x", 40)
	body, err := Decode(strings.NewReader(large), FramingRaw, 16, false)
	if err != nil {
		t.Fatalf("lenient raw read must not fail, got %v", err)
	}
	if string(body) != large[:16] {
		t.Fatalf("expect 16-byte prefix, got %q", body)
	}
}

func TestRawStrictReportsTruncated(t *testing.T) {
	large := strings.Repeat("x", 40)
	_, err := Decode(strings.NewReader(large), FramingRaw, 16, true)
	if !errors.Is(err, rpcerr.ErrTruncated) {
		t.Fatalf("expect ErrTruncated, got %v", err)
	}
}

func TestRawStrictAcceptsExactFitAtEOF(t *testing.T) {
	exact := strings.Repeat("y", 16)
	body, err := Decode(strings.NewReader(exact), FramingRaw, 16, true)
	if err != nil {
		t.Fatalf("expect exact fit followed by EOF to pass, got %v", err)
	}
	if string(body) != exact {
		t.Fatalf("body mismatch: got %q", body)
	}
}

func TestRawStrictAcceptsTerminatedChunk(t *testing.T) {
	// A newline-terminated reply is complete even when the peer keeps the stream open.
	r := io.MultiReader(strings.NewReader(reply+"\n"), iotest.TimeoutReader(strings.NewReader("more")))
	body, err := Decode(r, FramingRaw, 1024, true)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != reply+"\n" {
		t.Fatalf("body mismatch: got %q", body)
	}
}

func TestRawEmptyStream(t *testing.T) {
	_, err := Decode(strings.NewReader(""), FramingRaw, 16, false)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expect io.EOF, got %v", err)
	}
}

func TestNewlineTooLong(t *testing.T) {
	_, err := Decode(strings.NewReader(strings.Repeat("z", 64)+"\n"), FramingNewline, 32, false)
	if !errors.Is(err, rpcerr.ErrTruncated) {
		t.Fatalf("expect ErrTruncated, got %v", err)
	}
	_, err = Decode(strings.NewReader("0123456789\n"), FramingNewline, 4, false)
	if !errors.Is(err, rpcerr.ErrTruncated) {
		t.Fatalf("expect ErrTruncated below bufio minimum, got %v", err)
	}
}

func TestNewlineOneByteReads(t *testing.T) {
	body, err := Decode(iotest.OneByteReader(strings.NewReader(reply+"\r\n")), FramingNewline, 1024, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != reply {
		t.Fatalf("body mismatch: got %q", body)
	}
}

func TestNewlineBodyRejected(t *testing.T) {
	if _, err := Frame(FramingNewline, []byte("a\nb")); err == nil {
		t.Fatal("expect error for body containing newline")
	}
}

func TestLengthPrefixTooLarge(t *testing.T) {
	frame, _ := Frame(FramingLengthPrefix, bytes.Repeat([]byte{1}, 100))
	_, err := Decode(bytes.NewReader(frame), FramingLengthPrefix, 50, false)
	if !errors.Is(err, rpcerr.ErrTruncated) {
		t.Fatalf("expect ErrTruncated, got %v", err)
	}
}

func TestLengthPrefixShortBody(t *testing.T) {
	frame, _ := Frame(FramingLengthPrefix, []byte("hello world"))
	_, err := Decode(bytes.NewReader(frame[:8]), FramingLengthPrefix, 1024, false)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expect io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestParseFraming(t *testing.T) {
	cases := map[string]Framing{
		"":              FramingRaw,
		"raw":           FramingRaw,
		"Newline":       FramingNewline,
		"length-prefix": FramingLengthPrefix,
	}
	for in, want := range cases {
		got, err := ParseFraming(in)
		if err != nil || got != want {
			t.Errorf("ParseFraming(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseFraming("carrier-pigeon"); err == nil {
		t.Fatal("expect error for unknown framing")
	}
}
