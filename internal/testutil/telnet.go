package testutil

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// TelnetClient is a line-oriented Telnet client for integration tests.
type TelnetClient struct {
	conn net.Conn
	t    *testing.T
	// pending holds bytes read past the last ReadUntil match.
	pending string
}

// NewTelnetClient dials addr and returns a test client closed on cleanup.
//
// Precondition: addr must be a "host:port" with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}
	t.Cleanup(func() {
		conn.Close()
	})

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return &TelnetClient{conn: conn, t: t}
}

// ReadUntil reads until substr appears or timeout expires. It returns the
// output up to and including the first match; anything after the match is
// kept for the next call.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns output ending in substr, or fails the test.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	var buf strings.Builder
	buf.WriteString(c.pending)
	c.pending = ""

	tmp := make([]byte, 1024)
	for {
		if i := strings.Index(buf.String(), substr); i >= 0 {
			out := buf.String()
			end := i + len(substr)
			c.pending = out[end:]
			return out[:end]
		}
		n, err := c.conn.Read(tmp)
		if n > 0 {
			buf.Write(tmp[:n])
			continue
		}
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, buf.String(), err)
		}
	}
}

// Send writes text followed by CRLF.
//
// Precondition: text should not end in a line break.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Exchange sends text and reads until the reply contains until.
func (c *TelnetClient) Exchange(text, until string, timeout time.Duration) string {
	c.t.Helper()
	c.Send(text)
	return c.ReadUntil(until, timeout)
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
