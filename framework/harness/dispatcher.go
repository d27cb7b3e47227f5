package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/apitests/reqres-contract-tests/framework"
)

// Outcome is the result of a request started by a Dispatcher. Exactly one of Response and
// Err is set.
type Outcome struct {
	Seq      int
	Request  Request
	Response *Response
	Err      error
}

// Dispatcher starts requests without waiting for their responses, so that several requests
// can be in flight against the service at once. Outcomes are delivered in the order the
// requests were dispatched, even if the responses arrive in a different order.
//
// A Dispatcher is meant to be driven from a single goroutine.
type Dispatcher struct {
	client   *APIClient
	logger   framework.Logger
	queue    *SortingQueue[Outcome]
	lastSeq  int
	consumed int
}

func (c *APIClient) NewDispatcher(logger framework.Logger) *Dispatcher {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Dispatcher{
		client: c,
		logger: logger,
		queue:  NewSortingQueue[Outcome](16),
	}
}

// Dispatch starts a request and returns its sequence number. It blocks only until the request
// has been written to the connection (or has failed), not until a response arrives; this
// guarantees that requests dispatched one after another reach the service in that order.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) int {
	d.lastSeq++
	seq := d.lastSeq
	written := make(chan struct{})
	var once sync.Once
	signal := func() { once.Do(func() { close(written) }) }

	go func() {
		resp, err := d.client.do(ctx, req, d.logger, signal)
		signal()
		d.queue.Accept(seq, Outcome{Seq: seq, Request: req, Response: resp, Err: err})
	}()

	deadline := time.NewTimer(d.client.timeout)
	defer deadline.Stop()
	select {
	case <-written:
	case <-ctx.Done():
	case <-deadline.C:
	}
	d.logger.Printf("Dispatched request #%d (%s %s) without waiting for a response", seq, req.Method, req.Path)
	return seq
}

// Next waits for the outcome of the earliest dispatched request that has not been returned yet.
func (d *Dispatcher) Next(timeout time.Duration) (Outcome, error) {
	if d.consumed >= d.lastSeq {
		return Outcome{}, fmt.Errorf("no dispatched requests are outstanding")
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case o := <-d.queue.C:
		d.consumed++
		return o, nil
	case <-deadline.C:
		return Outcome{}, fmt.Errorf("timed out waiting for outcome of request #%d", d.consumed+1)
	}
}

// Wait returns the outcomes of all outstanding requests, in dispatch order. Each request is
// bounded by the client timeout, so this always returns eventually.
func (d *Dispatcher) Wait() []Outcome {
	var ret []Outcome
	for d.consumed < d.lastSeq {
		ret = append(ret, <-d.queue.C)
		d.consumed++
	}
	return ret
}
