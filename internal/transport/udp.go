// Package transport sends DNS queries over UDP to a list of candidate
// servers, trying each in turn with its own timeout and
// validating that a reply actually answers the request before accepting
// it.
package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/time/rate"

	"github.com/dnsscience/dnswalker/internal/random"
	"github.com/dnsscience/dnswalker/internal/wire"
)

const (
	defaultTimeout = 1 * time.Second
	maxUDPSize     = 4096
)

// Client sends one-shot UDP queries, opening a fresh socket per query
// rather than keeping a pool — the resolver issues queries one at a time
// per branch of its iteration, so there is no steady-state connection to
// amortize.
type Client struct {
	timeout time.Duration
	limiter *rate.Limiter
}

// NewClient creates a Client with the given per-query timeout. qps/burst
// configure a token bucket (grounded on the teacher's per-client inbound
// limiter, repurposed here to bound outbound fan-out) that SendQuery
// waits on before each send — callers doing glueless NS resolution across
// many servers use this to avoid bursting a referral's entire NS set at
// once.
func NewClient(timeout time.Duration, qps float64, burst int) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	var limiter *rate.Limiter
	if qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(qps), burst)
	}
	return &Client{timeout: timeout, limiter: limiter}
}

// SendQuery builds a question for (name, qtype), sends it to each server in
// turn until one produces a validated answer, and returns the first such
// answer. A server that doesn't respond within the client's timeout is
// skipped silently; SendQuery returns an error only once every server has
// been tried without success.
func (c *Client) SendQuery(ctx context.Context, name string, qtype wire.RRType, servers []string, rd bool) (*wire.Message, error) {
	if len(servers) == 0 {
		return nil, fmt.Errorf("transport: no servers given for %s", name)
	}

	req := wire.Message{
		Header: wire.Header{
			ID: random.TransactionID(),
			RD: rd,
		},
		Question: []wire.Question{
			{Name: wire.Sanitize(name), Type: qtype, Class: wire.ClassIN},
		},
	}

	var lastErr error
	for _, server := range servers {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("transport: rate limiter wait: %w", err)
			}
		}

		resp, err := c.exchangeOne(req, server)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("transport: no server in %v answered for %s: %w", servers, name, lastErr)
}

// exchangeOne sends req to a single server and reads responses until one
// both carries the expected transaction ID and comes from the server it
// was sent to, or the timeout elapses.
func (c *Client) exchangeOne(req wire.Message, server string) (*wire.Message, error) {
	addr := server
	if _, _, err := net.SplitHostPort(server); err != nil {
		addr = net.JoinHostPort(server, "53")
	}

	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	payload, err := req.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write to %s: %w", addr, err)
	}

	buf := make([]byte, maxUDPSize)
	for time.Now().Before(deadline) {
		n, err := conn.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("read from %s: %w", addr, err)
		}

		resp, err := decodeAndValidate(buf[:n], req)
		if err != nil {
			// Malformed or mismatched datagram: keep reading within the
			// same deadline rather than failing the whole exchange — an
			// off-path spoofed response shouldn't be able to win a race
			// against the real one just by arriving first.
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("timeout waiting for %s", addr)
}

func decodeAndValidate(buf []byte, req wire.Message) (*wire.Message, error) {
	msg, err := wire.Decode(buf)
	if err != nil {
		return nil, err
	}
	if msg.Header.ID != req.Header.ID {
		return nil, fmt.Errorf("transaction id mismatch: got %d, want %d", msg.Header.ID, req.Header.ID)
	}
	if !msg.Header.QR {
		return nil, fmt.Errorf("received a query, not a response")
	}
	return &msg, nil
}
