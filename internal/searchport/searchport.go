// Package searchport implements the Search Port (C7): a request/reply
// client for the out-of-process embedding/search service, speaking the
// tagged-JSON protocol over a single socket described in the external
// interfaces. Calls are synchronous but serialized through one mutex,
// since the protocol is one request/reply pair at a time per connection.
package searchport

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
	"github.com/Delta-in-hub/FuseLLM/metrics"
)

// Port is the boundary corpus/query handlers submit remote search
// operations through.
type Port interface {
	CreateIndex(ctx context.Context, index string) error
	DeleteIndex(ctx context.Context, index string) error
	AddDocument(ctx context.Context, index, name, content string) error
	RemoveDocument(ctx context.Context, index, name string) error
	Query(ctx context.Context, index, text string, topK int) (string, error)
}

type request struct {
	Command string      `json:"command"`
	Payload interface{} `json:"payload"`
}

type reply struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// SocketPort dials a TCP/unix address carrying the search service and
// exchanges one {command,payload}/{status,data} pair per call.
type SocketPort struct {
	Addr    string
	Network string // "tcp" or "unix"
	Timeout time.Duration
	Limiter *rate.Limiter
	Metrics *metrics.Metrics

	mu   sync.Mutex
	conn net.Conn
	rd   *bufio.Reader
}

// NewSocketPort builds a SocketPort. network is "tcp" or "unix". m may be
// nil, in which case calls skip recording latency.
func NewSocketPort(network, addr string, reqsPerSecond float64, m *metrics.Metrics) *SocketPort {
	return &SocketPort{
		Addr:    addr,
		Network: network,
		Timeout: 10 * time.Second,
		Limiter: rate.NewLimiter(rate.Limit(reqsPerSecond), 1),
		Metrics: m,
	}
}

func (p *SocketPort) ensureConn() error {
	if p.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout(p.Network, p.Addr, p.Timeout)
	if err != nil {
		return err
	}
	p.conn = conn
	p.rd = bufio.NewReader(conn)
	return nil
}

// call sends req and decodes the matching reply, holding p.mu for the
// duration of the exchange so the single socket is never interleaved
// between concurrent callers.
func (p *SocketPort) call(ctx context.Context, req request) (reply, error) {
	start := time.Now()
	if p.Metrics != nil {
		defer func() {
			p.Metrics.SearchSeconds.WithLabelValues(req.Command).Observe(time.Since(start).Seconds())
		}()
	}

	if err := p.Limiter.Wait(ctx); err != nil {
		return reply{}, vfserr.SearchFailuref("rate limiter: %s", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConn(); err != nil {
		return reply{}, vfserr.SearchFailuref("dialing search service: %s", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = p.conn.SetDeadline(deadline)
	} else {
		_ = p.conn.SetDeadline(time.Now().Add(p.Timeout))
	}

	enc := json.NewEncoder(p.conn)
	if err := enc.Encode(req); err != nil {
		p.closeLocked()
		return reply{}, vfserr.SearchFailuref("sending request: %s", err)
	}

	line, err := p.rd.ReadBytes('\n')
	if err != nil {
		p.closeLocked()
		return reply{}, vfserr.SearchFailuref("reading reply: %s", err)
	}

	var rep reply
	if err := json.Unmarshal(line, &rep); err != nil {
		return reply{}, vfserr.SearchFailuref("parsing reply: %s", err)
	}
	if rep.Status != "ok" {
		return reply{}, vfserr.SearchFailuref("search service returned error: %s", string(rep.Data))
	}
	return rep, nil
}

func (p *SocketPort) closeLocked() {
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
		p.rd = nil
	}
}

// CreateIndex asks the remote service to create index.
func (p *SocketPort) CreateIndex(ctx context.Context, index string) error {
	_, err := p.call(ctx, request{Command: "create_index", Payload: map[string]string{"index": index}})
	return err
}

// DeleteIndex asks the remote service to delete index. The caller must
// remove the local record only after this returns nil, per the
// transactional create/delete rule.
func (p *SocketPort) DeleteIndex(ctx context.Context, index string) error {
	_, err := p.call(ctx, request{Command: "delete_index", Payload: map[string]string{"index": index}})
	return err
}

// AddDocument forwards a corpus file's content to the remote service.
func (p *SocketPort) AddDocument(ctx context.Context, index, name, content string) error {
	_, err := p.call(ctx, request{
		Command: "add_document",
		Payload: map[string]string{"index": index, "name": name, "content": content},
	})
	return err
}

// RemoveDocument asks the remote service to drop a corpus file.
func (p *SocketPort) RemoveDocument(ctx context.Context, index, name string) error {
	_, err := p.call(ctx, request{
		Command: "remove_document",
		Payload: map[string]string{"index": index, "name": name},
	})
	return err
}

// Query submits text to the remote service and returns the result text.
func (p *SocketPort) Query(ctx context.Context, index, text string, topK int) (string, error) {
	rep, err := p.call(ctx, request{
		Command: "query",
		Payload: map[string]interface{}{"index": index, "text": text, "top_k": topK},
	})
	if err != nil {
		return "", err
	}
	var result string
	if err := json.Unmarshal(rep.Data, &result); err != nil {
		return "", vfserr.SearchFailuref("parsing query result: %s", err)
	}
	return result, nil
}

// Close releases the underlying connection, if any.
func (p *SocketPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	p.rd = nil
	return err
}
