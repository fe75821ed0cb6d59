// Copyright (c) 2025 Neomantra Corp

package dbn_live

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	dbn "github.com/databento/dbn-go"
)

const (
	DATABENTO_VERSION = "0.18.1"

	DATABENTO_API_ENV_KEY    = "DATABENTO_API_KEY"
	DATABENTO_CLIENT_ENV_KEY = "DATABENTO_CLIENT"

	LIVE_HOST_SUFFIX = ".lsg.databento.com"
	LIVE_API_PORT    = 13000

	API_KEY_LENGTH = 32

	MAX_LINE_LENGTH = 24 * 1024

	DefaultConnectTimeout = 5 * time.Second
	DefaultAuthTimeout    = 2 * time.Second

	// DefaultQueueCapacity bounds the number of decoded records buffered
	// between the protocol's read loop and a consumer (spec §5).
	DefaultQueueCapacity = 8192
)

// ProtocolState is LiveProtocol's position in the handshake/streaming state
// machine (spec §4.6):
//
//	NEW -> CONNECTED -> CHALLENGED -> AUTHENTICATED -> (SUBSCRIBED* -> STREAMING) -> CLOSED
//	                                                           ^_________________|
type ProtocolState int

const (
	StateNew ProtocolState = iota
	StateConnected
	StateChallenged
	StateAuthenticated
	StateSubscribed
	StateStreaming
	StateClosed
)

func (s ProtocolState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateConnected:
		return "CONNECTED"
	case StateChallenged:
		return "CHALLENGED"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateSubscribed:
		return "SUBSCRIBED"
	case StateStreaming:
		return "STREAMING"
	case StateClosed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

///////////////////////////////////////////////////////////////////////////////

// LiveConfig configures a LiveProtocol session.
type LiveConfig struct {
	Logger               *slog.Logger
	ApiKey               string
	Dataset              string
	Client               string
	Encoding             dbn.Encoding // zero value means Encoding_Dbn
	SendTsOut            bool
	HeartbeatIntervalS   int
	VersionUpgradePolicy dbn.VersionUpgradePolicy
	ConnectTimeout       time.Duration
	AuthTimeout          time.Duration
	QueueCapacity        int
	Verbose              bool
}

// SetFromEnv fills in the LiveConfig from environment variables.
// `DATABENTO_API_KEY` holds the Databento API key.
// `DATABENTO_CLIENT` holds the client name.
func (c *LiveConfig) SetFromEnv() error {
	apiKey := os.Getenv(DATABENTO_API_ENV_KEY)
	if apiKey == "" {
		return errors.New("expected environment variable DATABENTO_API_KEY to be set")
	}
	c.ApiKey = apiKey
	if c.Client == "" {
		c.Client = os.Getenv(DATABENTO_CLIENT_ENV_KEY)
	}
	return nil
}

func (c *LiveConfig) validate() error {
	if len(c.ApiKey) == 0 {
		return errors.New("field ApiKey is unset")
	}
	if len(c.ApiKey) != API_KEY_LENGTH {
		return fmt.Errorf("field ApiKey must contain %d characters", API_KEY_LENGTH)
	}
	if len(c.Dataset) == 0 {
		return errors.New("field Dataset is unset")
	}
	return nil
}

func (c *LiveConfig) fillDefaults() {
	if c.Client == "" {
		c.Client = "Go " + DATABENTO_VERSION
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.AuthTimeout <= 0 {
		c.AuthTimeout = DefaultAuthTimeout
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = DefaultQueueCapacity
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

///////////////////////////////////////////////////////////////////////////////

// RecordCallback is invoked synchronously, on the protocol's read loop, for
// every non-metadata record (spec §4.6 "Fan-out"). Implementations must not
// block: a slow callback stalls decoding and therefore the bounded queue and
// every stream sink.
type RecordCallback func(header dbn.RHeader, raw []byte)

// LiveProtocol drives the handshake and streaming state machine against a
// single TCP connection to the live gateway (spec §4.6). It owns the
// bounded RecordQueue, the set of user callbacks, and the set of raw
// byte-stream sinks that every fanned-out record is written to.
type LiveProtocol struct {
	config  LiveConfig
	gateway string
	port    uint16
	logger  *slog.Logger

	conn      net.Conn
	bufReader *bufio.Reader

	dbnScanner *dbn.DbnScanner

	lsgVersion string
	sessionID  string

	mu            sync.Mutex
	state         ProtocolState
	callbacks     []RecordCallback
	streams       []io.Writer
	sessionErrors []string
	lastRecordTs  uint64
	subscriptions []*SubscriptionRequestMsg

	queue *RecordQueue

	heartbeatMu    sync.Mutex
	heartbeatTimer *time.Timer
	heartbeatMiss  bool

	closeOnce sync.Once
	closeErr  error
	closedCh  chan struct{}
}

// NewLiveProtocol validates config and returns a new, unconnected
// LiveProtocol in state NEW.
func NewLiveProtocol(config LiveConfig) (*LiveProtocol, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	config.fillDefaults()

	p := &LiveProtocol{
		config:   config,
		gateway:  dbn.DatasetToHostname(config.Dataset) + LIVE_HOST_SUFFIX,
		port:     LIVE_API_PORT,
		logger:   config.Logger,
		state:    StateNew,
		queue:    NewRecordQueue(config.QueueCapacity),
		closedCh: make(chan struct{}),
	}
	return p, nil
}

// State returns the protocol's current ProtocolState.
func (p *LiveProtocol) State() ProtocolState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Queue returns the bounded record queue records are pushed onto during
// streaming.
func (p *LiveProtocol) Queue() *RecordQueue {
	return p.queue
}

// AddCallback registers fn to be invoked for every non-metadata record
// (spec §4.7 "add_callback(fn)").
func (p *LiveProtocol) AddCallback(fn RecordCallback) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

// AddStream registers w to receive the raw bytes of every non-metadata
// record, plus the 8-byte ts_out trailer if ts_out was negotiated (spec
// §4.7 "add_stream(writer)").
func (p *LiveProtocol) AddStream(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.streams = append(p.streams, w)
}

// GetGateway returns the gateway host used for the connection.
func (p *LiveProtocol) GetGateway() string { return p.gateway }

// GetSessionID returns the authenticated session ID, or "" before
// authentication completes.
func (p *LiveProtocol) GetSessionID() string { return p.sessionID }

// GetLsgVersion returns the live gateway's advertised version.
func (p *LiveProtocol) GetLsgVersion() string { return p.lsgVersion }

// LastRecordTs returns the ts_event of the most recently fanned-out record,
// used by LiveClient's reconnect policy to mark gap_start/gap_end (spec
// §4.7 "add_reconnect_callback(gap_start, gap_end)").
func (p *LiveProtocol) LastRecordTs() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRecordTs
}

// Done returns a channel closed once the protocol reaches CLOSED.
func (p *LiveProtocol) Done() <-chan struct{} { return p.closedCh }

// CloseErr returns the error the session closed with: nil for a normal
// close, *dbn.SessionError if the server sent Error records before closing,
// or, for a transport error other than io.EOF, an error wrapping both
// dbn.ErrDisconnected and that transport error (spec §4.6 "On EOF or
// transport error").
func (p *LiveProtocol) CloseErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeErr
}

///////////////////////////////////////////////////////////////////////////////

// Connect dials the gateway and reads the Greeting and ChallengeRequest
// within ConnectTimeout (spec §4.6 "On CONNECT").
func (p *LiveProtocol) Connect() error {
	hostPort := fmt.Sprintf("%s:%d", p.gateway, p.port)
	conn, err := net.DialTimeout("tcp", hostPort, p.config.ConnectTimeout)
	if err != nil {
		return &dbn.ConnectFailedError{Cause: err}
	}
	p.conn = conn
	p.bufReader = bufio.NewReaderSize(conn, MAX_LINE_LENGTH)
	p.setState(StateConnected)

	conn.SetReadDeadline(time.Now().Add(p.config.ConnectTimeout))
	defer conn.SetReadDeadline(time.Time{})

	line, err := p.bufReader.ReadBytes('\n')
	if err != nil {
		return dbn.ErrConnectTimeout
	}
	greeting, err := ParseGreetingMsg(line)
	if err != nil {
		return err
	}
	p.lsgVersion = greeting.LsgVersion

	line, err = p.bufReader.ReadBytes('\n')
	if err != nil {
		return dbn.ErrConnectTimeout
	}
	challenge, err := ParseChallengeRequestMsg(line)
	if err != nil {
		return err
	}
	p.setState(StateChallenged)
	return p.authenticate(challenge.Cram)
}

// authenticate computes the CRAM response and completes the handshake
// within AuthTimeout (spec §4.6 "On CHALLENGED").
func (p *LiveProtocol) authenticate(cram string) error {
	auth := dbn.CramResponse(cram, p.config.ApiKey)
	req := &AuthenticationRequestMsg{
		Auth:               auth,
		Dataset:            p.config.Dataset,
		Encoding:           p.config.Encoding,
		TsOut:              p.config.SendTsOut,
		HeartbeatIntervalS: p.config.HeartbeatIntervalS,
		Client:             p.config.Client,
	}
	if err := p.writeLine(req.Encode()); err != nil {
		return err
	}

	p.conn.SetReadDeadline(time.Now().Add(p.config.AuthTimeout))
	defer p.conn.SetReadDeadline(time.Time{})

	line, err := p.bufReader.ReadBytes('\n')
	if err != nil {
		return dbn.ErrAuthTimeout
	}
	resp, err := ParseAuthenticationResponseMsg(line)
	if err != nil {
		return err
	}
	if resp.Success != "1" {
		return &dbn.AuthFailedError{Message: resp.Error}
	}
	p.sessionID = resp.SessionID
	p.setState(StateAuthenticated)
	return nil
}

func (p *LiveProtocol) writeLine(b []byte) error {
	n, err := p.conn.Write(b)
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if n != len(b) {
		return fmt.Errorf("short write: wanted %d sent %d", len(b), n)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

const maxSubscriptionBatch = 500

// Subscribe emits one SubscriptionRequest per batch of at most 500 symbols,
// marking `is_last=1` on the final batch, and records the request for
// reconnect replay (spec §4.6 "On SUBSCRIBE"). Valid from AUTHENTICATED or
// SUBSCRIBED only.
func (p *LiveProtocol) Subscribe(req SubscriptionRequestMsg) ([]*SubscriptionRequestMsg, error) {
	state := p.State()
	if state != StateAuthenticated && state != StateSubscribed {
		return nil, fmt.Errorf("subscribe: invalid state %s", state)
	}
	if len(req.Symbols) == 0 {
		return nil, errors.New("subscribe request must contain at least one symbol")
	}

	symbols := NormalizeSymbols(req.Symbols)
	var emitted []*SubscriptionRequestMsg
	for i := 0; i < len(symbols); i += maxSubscriptionBatch {
		end := i + maxSubscriptionBatch
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := req
		batch.Symbols = symbols[i:end]
		batch.IsLast = end >= len(symbols)
		if err := p.writeLine(batch.Encode()); err != nil {
			return emitted, err
		}
		sent := batch
		emitted = append(emitted, &sent)
		if p.config.Verbose {
			p.logger.Info("[LiveProtocol.Subscribe]", "schema", sent.Schema, "symbols", len(sent.Symbols), "is_last", sent.IsLast)
		}
	}

	p.mu.Lock()
	p.subscriptions = append(p.subscriptions, emitted...)
	p.mu.Unlock()

	p.setState(StateSubscribed)
	return emitted, nil
}

// Subscriptions returns every subscription request successfully emitted so
// far, for reconnect replay.
func (p *LiveProtocol) Subscriptions() []*SubscriptionRequestMsg {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*SubscriptionRequestMsg, len(p.subscriptions))
	copy(out, p.subscriptions)
	return out
}

///////////////////////////////////////////////////////////////////////////////

// Start emits SessionStart, transitions to STREAMING, and reads the DBN
// Metadata prologue the gateway sends first (spec §4.6 "On START").
func (p *LiveProtocol) Start() (*dbn.Metadata, error) {
	if err := p.writeLine((&SessionStartMsg{}).Encode()); err != nil {
		return nil, err
	}
	p.setState(StateStreaming)

	p.dbnScanner = dbn.NewDbnScanner(p.bufReader)
	p.dbnScanner.SetUpgradePolicy(p.config.VersionUpgradePolicy)
	meta, err := p.dbnScanner.Metadata()
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	if p.config.HeartbeatIntervalS > 0 {
		p.resetHeartbeat()
	}
	return meta, nil
}

// streamVisitor fans out every decoded record to the queue, callbacks, and
// stream sinks (spec §4.6 "Fan-out").
type streamVisitor struct {
	dbn.NullVisitor
	p *LiveProtocol
}

func (v *streamVisitor) fanOut() error {
	s := v.p.dbnScanner
	raw := append([]byte(nil), s.GetLastRecord()[:s.GetLastSize()]...)
	header, err := s.GetLastHeader()
	if err != nil {
		return err
	}

	v.p.mu.Lock()
	v.p.lastRecordTs = header.TsEvent
	callbacks := append([]RecordCallback(nil), v.p.callbacks...)
	streams := append([]io.Writer(nil), v.p.streams...)
	v.p.mu.Unlock()

	for v.p.queue.HighWater() {
		time.Sleep(time.Millisecond)
	}
	v.p.queue.Push(raw)

	for _, cb := range callbacks {
		cb(header, raw)
	}
	for _, w := range streams {
		if _, err := w.Write(raw); err != nil {
			return err
		}
	}
	return nil
}

func (v *streamVisitor) OnMbp0(r *dbn.Mbp0Msg) error                   { return v.fanOut() }
func (v *streamVisitor) OnMbp1(r *dbn.Mbp1Msg) error                   { return v.fanOut() }
func (v *streamVisitor) OnMbp10(r *dbn.Mbp10Msg) error                 { return v.fanOut() }
func (v *streamVisitor) OnMbo(r *dbn.MboMsg) error                     { return v.fanOut() }
func (v *streamVisitor) OnOhlcv(r *dbn.OhlcvMsg) error                 { return v.fanOut() }
func (v *streamVisitor) OnImbalance(r *dbn.ImbalanceMsg) error         { return v.fanOut() }
func (v *streamVisitor) OnStatMsg(r *dbn.StatMsg) error                { return v.fanOut() }
func (v *streamVisitor) OnStatusMsg(r *dbn.StatusMsg) error            { return v.fanOut() }
func (v *streamVisitor) OnInstrumentDefMsg(r *dbn.InstrumentDefMsg) error { return v.fanOut() }

func (v *streamVisitor) OnSymbolMappingMsg(r *dbn.SymbolMappingMsg) error {
	if err := v.fanOut(); err != nil {
		return err
	}
	return nil
}

func (v *streamVisitor) OnSystemMsg(r *dbn.SystemMsg) error {
	v.p.resetHeartbeat() // spec §4.6: "System{heartbeat}... reset heartbeat-miss timer"
	return nil
}

func (v *streamVisitor) OnErrorMsg(r *dbn.ErrorMsg) error {
	v.p.mu.Lock()
	v.p.sessionErrors = append(v.p.sessionErrors, r.Err)
	v.p.mu.Unlock()
	if v.p.config.Verbose {
		v.p.logger.Error("[LiveProtocol] gateway error", "message", r.Err)
	}
	return nil
}

// Run drives the STREAMING read loop until EOF, a transport error, or
// Terminate is called, then transitions to CLOSED (spec §4.6 "On EOF or
// transport error"). It is meant to run on its own goroutine.
func (p *LiveProtocol) Run() {
	visitor := &streamVisitor{p: p}
	var runErr error
	for p.dbnScanner.Next() {
		if err := p.dbnScanner.Visit(visitor); err != nil {
			runErr = err
			break
		}
	}
	if runErr == nil {
		if err := p.dbnScanner.Error(); err != nil && err != io.EOF {
			runErr = err
		}
	}
	p.close(runErr)
}

// Terminate forces an immediate abort of the read loop by closing the
// underlying connection (spec §4.7 "terminate()").
func (p *LiveProtocol) Terminate() {
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *LiveProtocol) close(transportErr error) {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.state = StateClosed
		sessionErrors := p.sessionErrors
		p.mu.Unlock()

		p.stopHeartbeat()
		p.queue.Close()
		if p.conn != nil {
			p.conn.Close()
		}

		var closeErr error
		switch {
		case len(sessionErrors) > 0:
			closeErr = &dbn.SessionError{Messages: sessionErrors}
		case transportErr != nil && transportErr != io.EOF:
			closeErr = fmt.Errorf("%w: %w", dbn.ErrDisconnected, transportErr)
		}
		p.mu.Lock()
		p.closeErr = closeErr
		p.mu.Unlock()
		close(p.closedCh)
	})
}

func (p *LiveProtocol) setState(s ProtocolState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

///////////////////////////////////////////////////////////////////////////////

// resetHeartbeat (re)arms the heartbeat-miss timer at 3x the negotiated
// interval; firing terminates the connection as a dead connection (spec
// §4.6 "Heartbeat").
func (p *LiveProtocol) resetHeartbeat() {
	if p.config.HeartbeatIntervalS <= 0 {
		return
	}
	p.heartbeatMu.Lock()
	defer p.heartbeatMu.Unlock()
	deadline := time.Duration(3*p.config.HeartbeatIntervalS) * time.Second
	if p.heartbeatTimer == nil {
		p.heartbeatTimer = time.AfterFunc(deadline, func() {
			if p.config.Verbose {
				p.logger.Warn("[LiveProtocol] heartbeat missed; terminating")
			}
			p.Terminate()
		})
	} else {
		p.heartbeatTimer.Reset(deadline)
	}
}

func (p *LiveProtocol) stopHeartbeat() {
	p.heartbeatMu.Lock()
	defer p.heartbeatMu.Unlock()
	if p.heartbeatTimer != nil {
		p.heartbeatTimer.Stop()
	}
}
