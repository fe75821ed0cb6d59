// Copyright (c) 2025 Neomantra Corp

package dbn_live

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	dbn "github.com/databento/dbn-go"
)

// ReconnectPolicy controls what LiveClient does when the transport drops
// mid-stream (spec §4.7 "Reconnect policy").
type ReconnectPolicy int

const (
	// ReconnectNone surfaces the disconnect to the caller and does not retry.
	ReconnectNone ReconnectPolicy = iota
	// ReconnectReconnect rebuilds the connection, replays every subscription
	// with `start` cleared, and resumes streaming.
	ReconnectReconnect
)

// ReconnectCallback is invoked once per reconnect with the ts_event of the
// last record received before the drop and the wall-clock time at which the
// reconnect completed (spec §4.7 "add_reconnect_callback(gap_start,
// gap_end)").
type ReconnectCallback func(gapStart, gapEnd time.Time)

type subscribeCall struct {
	req SubscriptionRequestMsg
}

// LiveClient is the user-facing façade over LiveProtocol: it owns the
// reconnect policy, replays subscriptions across reconnects, and offers
// blocking and non-blocking record iteration over the bounded queue (spec
// §4.7).
type LiveClient struct {
	mu              sync.Mutex
	config          LiveConfig
	reconnectPolicy ReconnectPolicy

	proto *LiveProtocol

	callbacks          []RecordCallback
	streams            []io.Writer
	reconnectCallbacks []ReconnectCallback
	subscribeCalls     []subscribeCall
	wasStreaming       bool

	started bool
	stopped bool

	closeOnce sync.Once
	closedCh  chan struct{}
	closeErr  error
}

// NewLiveClient creates a LiveClient for the given config and reconnect
// policy. The connection is not established until Start is called.
func NewLiveClient(config LiveConfig, policy ReconnectPolicy) (*LiveClient, error) {
	proto, err := NewLiveProtocol(config)
	if err != nil {
		return nil, err
	}
	return &LiveClient{
		config:          config,
		reconnectPolicy: policy,
		proto:           proto,
		closedCh:        make(chan struct{}),
	}, nil
}

// AddCallback registers fn to be invoked, on the protocol's read loop, for
// every record received (spec §4.7 "add_callback(fn)").
func (c *LiveClient) AddCallback(fn RecordCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, fn)
	c.proto.AddCallback(fn)
}

// AddStream registers w to receive the raw bytes of every record (spec §4.7
// "add_stream(writer)").
func (c *LiveClient) AddStream(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streams = append(c.streams, w)
	c.proto.AddStream(w)
}

// AddReconnectCallback registers fn to run once per reconnect with the
// start and end of the gap the drop created.
func (c *LiveClient) AddReconnectCallback(fn ReconnectCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconnectCallbacks = append(c.reconnectCallbacks, fn)
}

// Subscribe adds a subscription, normalizing an empty symbol list to
// AllSymbols (spec §4.7 "symbols defaults to ALL_SYMBOLS"). The request is
// remembered for replay on reconnect.
func (c *LiveClient) Subscribe(schema string, stypeIn dbn.SType, symbols []string, start time.Time, snapshot bool) error {
	if len(symbols) == 0 {
		symbols = []string{AllSymbols}
	}
	req := SubscriptionRequestMsg{
		Schema:   schema,
		StypeIn:  stypeIn,
		Symbols:  symbols,
		Start:    start,
		Snapshot: snapshot,
	}

	c.mu.Lock()
	c.subscribeCalls = append(c.subscribeCalls, subscribeCall{req: req})
	proto := c.proto
	c.mu.Unlock()

	_, err := proto.Subscribe(req)
	return err
}

// Start connects, authenticates, replays any queued subscriptions, and
// begins streaming in the background. Calling Start twice returns an error
// (spec §4.7 "start()... erroring if called twice").
func (c *LiveClient) Start() error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("live client already started")
	}
	c.started = true
	proto := c.proto
	c.mu.Unlock()

	if err := proto.Connect(); err != nil {
		return err
	}
	c.mu.Lock()
	calls := append([]subscribeCall(nil), c.subscribeCalls...)
	c.mu.Unlock()
	for _, sc := range calls {
		if _, err := proto.Subscribe(sc.req); err != nil {
			return err
		}
	}
	if _, err := proto.Start(); err != nil {
		return err
	}
	c.mu.Lock()
	c.wasStreaming = true
	c.mu.Unlock()

	go c.runLoop(proto)
	return nil
}

// runLoop drives one protocol generation to completion and, if the
// reconnect policy calls for it, rebuilds the connection and keeps going.
func (c *LiveClient) runLoop(proto *LiveProtocol) {
	proto.Run()

	c.mu.Lock()
	stopped := c.stopped
	policy := c.reconnectPolicy
	c.mu.Unlock()

	if stopped || policy != ReconnectReconnect {
		c.finish(proto.CloseErr())
		return
	}

	gapStart := dbn.TimestampToTime(proto.LastRecordTs())
	newProto, err := c.reconnect()
	if err != nil {
		c.finish(fmt.Errorf("reconnect failed: %w", err))
		return
	}

	c.mu.Lock()
	c.proto = newProto
	c.mu.Unlock()

	gapEnd := time.Now()
	c.mu.Lock()
	callbacks := append([]ReconnectCallback(nil), c.reconnectCallbacks...)
	c.mu.Unlock()
	for _, fn := range callbacks {
		fn(gapStart, gapEnd)
	}

	go c.runLoop(newProto)
}

// reconnect rebuilds the TCP connection, redoes the handshake, re-wires
// every previously-registered callback/stream, and replays every
// subscription with `start` cleared (spec §4.7 "Reconnect policy").
func (c *LiveClient) reconnect() (*LiveProtocol, error) {
	proto, err := NewLiveProtocol(c.config)
	if err != nil {
		return nil, err
	}
	if err := proto.Connect(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	for _, cb := range c.callbacks {
		proto.AddCallback(cb)
	}
	for _, w := range c.streams {
		proto.AddStream(w)
	}
	calls := append([]subscribeCall(nil), c.subscribeCalls...)
	wasStreaming := c.wasStreaming
	c.mu.Unlock()

	for _, sc := range calls {
		req := sc.req
		req.Start = time.Time{} // replay subscriptions from "now"
		if _, err := proto.Subscribe(req); err != nil {
			return nil, err
		}
	}

	if wasStreaming {
		if _, err := proto.Start(); err != nil {
			return nil, err
		}
	}
	return proto, nil
}

// Stop gracefully closes the session; it is a no-op if called more than
// once (spec §4.7 "stop()").
func (c *LiveClient) Stop() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	proto := c.proto
	c.mu.Unlock()

	proto.Terminate()
	return nil
}

// Terminate forces an immediate abort of the current connection, bypassing
// any graceful shutdown (spec §4.7 "terminate()").
func (c *LiveClient) Terminate() {
	c.mu.Lock()
	c.stopped = true
	proto := c.proto
	c.mu.Unlock()
	proto.Terminate()
}

func (c *LiveClient) finish(err error) {
	c.closeOnce.Do(func() {
		c.closeErr = err
		close(c.closedCh)
	})
}

// BlockForClose blocks until the session closes, or timeout elapses (0
// means wait forever); on timeout it calls Terminate and returns the
// timeout error (spec §4.7 "block_for_close(timeout)").
func (c *LiveClient) BlockForClose(timeout time.Duration) error {
	if timeout <= 0 {
		<-c.closedCh
		return c.closeErr
	}
	select {
	case <-c.closedCh:
		return c.closeErr
	case <-time.After(timeout):
		c.Terminate()
		return fmt.Errorf("timed out after %s waiting for close", timeout)
	}
}

// WaitForClose is the asynchronous counterpart to BlockForClose: it
// returns immediately with a channel that receives the close error exactly
// once (spec §4.7 "wait_for_close(timeout)").
func (c *LiveClient) WaitForClose(timeout time.Duration) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- c.BlockForClose(timeout)
	}()
	return ch
}

///////////////////////////////////////////////////////////////////////////////

// Next blocks until a record is available or the session closes, for
// synchronous iteration over the live stream (spec §4.7 "Synchronous and
// asynchronous iteration").
func (c *LiveClient) Next() ([]byte, bool) {
	c.mu.Lock()
	proto := c.proto
	c.mu.Unlock()
	return proto.Queue().Pop()
}

// TryNext returns the next buffered record without blocking, for
// asynchronous iteration.
func (c *LiveClient) TryNext() ([]byte, bool) {
	c.mu.Lock()
	proto := c.proto
	c.mu.Unlock()
	return proto.Queue().TryPop()
}
