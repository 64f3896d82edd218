package mcp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

const contentLengthHeader = "content-length"

// StdioTransport reads requests from one stream and writes responses to
// another. Messages are either newline-delimited JSON or Content-Length
// framed; replies use whichever framing the client last sent.
type StdioTransport struct {
	in     *bufio.Reader
	out    io.Writer
	stderr io.Writer

	mu     sync.Mutex
	framed bool
}

// NewStdioTransport creates a new stdio transport
func NewStdioTransport() *StdioTransport {
	return NewStreamTransport(os.Stdin, os.Stdout, os.Stderr)
}

// NewStreamTransport creates a transport over arbitrary streams
func NewStreamTransport(in io.Reader, out, stderr io.Writer) *StdioTransport {
	return &StdioTransport{
		in:     bufio.NewReader(in),
		out:    out,
		stderr: stderr,
	}
}

// ReadMessage reads the next JSON-RPC message. io.EOF means the peer is gone;
// a *ParseError means the message could not be decoded and the stream may continue.
func (t *StdioTransport) ReadMessage() (*JSONRPCRequest, error) {
	for {
		line, err := t.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && strings.TrimSpace(line) != "") {
			return nil, err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if name, value, ok := strings.Cut(trimmed, ":"); ok && strings.EqualFold(strings.TrimSpace(name), contentLengthHeader) {
			body, err := t.readFramedBody(value)
			if err != nil {
				return nil, err
			}
			t.setFramed(true)
			return ParseRequest(body)
		}

		t.setFramed(false)
		return ParseRequest([]byte(trimmed))
	}
}

func (t *StdioTransport) readFramedBody(lengthValue string) ([]byte, error) {
	contentLength, err := strconv.Atoi(strings.TrimSpace(lengthValue))
	if err != nil || contentLength < 0 {
		return nil, &ParseError{Err: fmt.Errorf("invalid Content-Length %q", strings.TrimSpace(lengthValue))}
	}

	// skip any further headers up to the blank separator line
	for {
		line, err := t.in.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			break
		}
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(t.in, body); err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}
	return body, nil
}

func (t *StdioTransport) setFramed(framed bool) {
	t.mu.Lock()
	t.framed = framed
	t.mu.Unlock()
}

// WriteMessage writes one response. Safe for concurrent use.
func (t *StdioTransport) WriteMessage(resp *JSONRPCResponse) error {
	data, err := SerializeResponse(resp)
	if err != nil {
		return fmt.Errorf("failed to serialize response: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var buf bytes.Buffer
	if t.framed {
		fmt.Fprintf(&buf, "Content-Length: %d\r\n\r\n", len(data))
		buf.Write(data)
	} else {
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if _, err := t.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// WriteError writes an error to stderr
func (t *StdioTransport) WriteError(err error) {
	fmt.Fprintf(t.stderr, "Error: %v\n", err)
}
