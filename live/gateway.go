// Copyright (c) 2025 Neomantra Corp

package dbn_live

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	dbn "github.com/databento/dbn-go"
)

// GatewayCodec is the line-terminated `key=value|key=value\n` ASCII protocol
// spoken with the live gateway (spec §4.5). Each message variant below
// parses from and serializes to this wire format; unknown keys are ignored
// on parse (forwards-compatible), but a missing required field fails with
// *dbn.InvalidMessageError.

// parseControlMessage returns a string key/value map from one gateway
// control-message line. The format is "k1=v1|k2=v2|k3=v3\n".
func parseControlMessage(b []byte) map[string]string {
	m := make(map[string]string)
	line := bytes.TrimRight(b, "\n")
	kvs := bytes.Split(line, []byte{'|'})
	for _, kv := range kvs {
		equals := bytes.IndexByte(kv, '=')
		if equals == -1 {
			continue
		}
		k := string(kv[:equals])
		v := string(kv[equals+1:])
		m[k] = v
	}
	return m
}

///////////////////////////////////////////////////////////////////////////////

// GreetingMsg is sent by the gateway immediately upon connection.
type GreetingMsg struct {
	LsgVersion string // key: lsg_version
}

// ParseGreetingMsg parses a control message line into a GreetingMsg.
func ParseGreetingMsg(b []byte) (*GreetingMsg, error) {
	m := parseControlMessage(b)
	version, ok := m["lsg_version"]
	if !ok {
		return nil, &dbn.InvalidMessageError{Reason: "greeting: missing lsg_version"}
	}
	return &GreetingMsg{LsgVersion: version}, nil
}

///////////////////////////////////////////////////////////////////////////////

// ChallengeRequestMsg is sent by the gateway right after the greeting.
type ChallengeRequestMsg struct {
	Cram string // key: cram
}

// ParseChallengeRequestMsg parses a control message line into a ChallengeRequestMsg.
func ParseChallengeRequestMsg(b []byte) (*ChallengeRequestMsg, error) {
	m := parseControlMessage(b)
	cram, ok := m["cram"]
	if !ok {
		return nil, &dbn.InvalidMessageError{Reason: "challenge: missing cram"}
	}
	return &ChallengeRequestMsg{Cram: cram}, nil
}

///////////////////////////////////////////////////////////////////////////////

// AuthenticationRequestMsg is sent to the gateway in response to a challenge.
type AuthenticationRequestMsg struct {
	Auth               string       // key: auth
	Dataset            string       // key: dataset
	Encoding           dbn.Encoding // key: encoding (default "dbn")
	TsOut              bool         // key: ts_out ("0"/"1")
	HeartbeatIntervalS int          // key: heartbeat_interval_s (optional, 0 means absent)
	Client             string       // key: client (optional)
	Details            string       // key: details (optional)
}

// Encode serializes the request to its line-protocol form, omitting fields
// with no value (spec §4.5 "Serialization emits only fields whose value is
// present.").
func (m *AuthenticationRequestMsg) Encode() []byte {
	tsOutStr := "0"
	if m.TsOut {
		tsOutStr = "1"
	}
	encoding := m.Encoding.String()
	if encoding == "" {
		encoding = "dbn"
	}
	b := fmt.Appendf(nil, "auth=%s|dataset=%s|encoding=%s|ts_out=%s", m.Auth, m.Dataset, encoding, tsOutStr)
	if m.HeartbeatIntervalS > 0 {
		b = fmt.Appendf(b, "|heartbeat_interval_s=%d", m.HeartbeatIntervalS)
	}
	if m.Client != "" {
		b = fmt.Appendf(b, "|client=%s", m.Client)
	}
	if m.Details != "" {
		b = fmt.Appendf(b, "|details=%s", m.Details)
	}
	return append(b, '\n')
}

// ParseAuthenticationRequestMsg parses a control message line into an
// AuthenticationRequestMsg, completing GatewayCodec's round-trip contract.
func ParseAuthenticationRequestMsg(b []byte) (*AuthenticationRequestMsg, error) {
	m := parseControlMessage(b)
	auth, ok := m["auth"]
	if !ok {
		return nil, &dbn.InvalidMessageError{Reason: "auth request: missing auth"}
	}
	dataset, ok := m["dataset"]
	if !ok {
		return nil, &dbn.InvalidMessageError{Reason: "auth request: missing dataset"}
	}
	req := &AuthenticationRequestMsg{
		Auth:    auth,
		Dataset: dataset,
		Client:  m["client"],
		Details: m["details"],
		TsOut:   m["ts_out"] == "1",
	}
	if enc, ok := m["encoding"]; ok {
		e, err := dbn.EncodingFromString(enc)
		if err != nil {
			return nil, &dbn.InvalidMessageError{Reason: "auth request: bad encoding " + enc}
		}
		req.Encoding = e
	}
	if hb, ok := m["heartbeat_interval_s"]; ok {
		n, err := strconv.Atoi(hb)
		if err != nil {
			return nil, &dbn.InvalidMessageError{Reason: "auth request: bad heartbeat_interval_s " + hb}
		}
		req.HeartbeatIntervalS = n
	}
	return req, nil
}

///////////////////////////////////////////////////////////////////////////////

// AuthenticationResponseMsg is sent by the gateway after an AuthenticationRequestMsg.
type AuthenticationResponseMsg struct {
	Success   string // key: success ("0"/"1")
	Error     string // key: error (optional)
	SessionID string // key: session_id (optional)
}

// ParseAuthenticationResponseMsg parses a control message line into an AuthenticationResponseMsg.
func ParseAuthenticationResponseMsg(b []byte) (*AuthenticationResponseMsg, error) {
	m := parseControlMessage(b)
	success, ok := m["success"]
	if !ok {
		return nil, &dbn.InvalidMessageError{Reason: "auth response: missing success"}
	}
	return &AuthenticationResponseMsg{
		Success:   success,
		Error:     m["error"],
		SessionID: m["session_id"],
	}, nil
}

///////////////////////////////////////////////////////////////////////////////

// SubscriptionRequestMsg is sent to the gateway to add a subscription.
type SubscriptionRequestMsg struct {
	Schema   string    // key: schema
	StypeIn  dbn.SType // key: stype_in
	Symbols  []string  // key: symbols (comma separated)
	Start    time.Time // key: start (optional, ns epoch)
	Snapshot bool      // key: snapshot ("0"/"1")
	ID       int       // key: id (optional)
	IsLast   bool       // key: is_last ("0"/"1")
}

// Encode serializes the request to its line-protocol form.
func (m *SubscriptionRequestMsg) Encode() []byte {
	b := fmt.Appendf(nil, "schema=%s|stype_in=%s", m.Schema, m.StypeIn.String())
	if !m.Start.IsZero() {
		b = fmt.Appendf(b, "|start=%d", m.Start.UnixNano())
	}
	snapshot := "0"
	if m.Snapshot {
		snapshot = "1"
	}
	b = fmt.Appendf(b, "|snapshot=%s", snapshot)
	if m.ID != 0 {
		b = fmt.Appendf(b, "|id=%d", m.ID)
	}
	b = append(b, "|symbols="...)
	b = append(b, strings.Join(m.Symbols, ",")...)
	isLast := "0"
	if m.IsLast {
		isLast = "1"
	}
	b = fmt.Appendf(b, "|is_last=%s", isLast)
	return append(b, '\n')
}

// ParseSubscriptionRequestMsg parses a control message line into a SubscriptionRequestMsg.
func ParseSubscriptionRequestMsg(b []byte) (*SubscriptionRequestMsg, error) {
	m := parseControlMessage(b)
	schema, ok := m["schema"]
	if !ok {
		return nil, &dbn.InvalidMessageError{Reason: "subscription: missing schema"}
	}
	stypeStr, ok := m["stype_in"]
	if !ok {
		return nil, &dbn.InvalidMessageError{Reason: "subscription: missing stype_in"}
	}
	stype, err := dbn.STypeFromString(stypeStr)
	if err != nil {
		return nil, &dbn.InvalidMessageError{Reason: "subscription: bad stype_in " + stypeStr}
	}
	symbolsStr, ok := m["symbols"]
	if !ok {
		return nil, &dbn.InvalidMessageError{Reason: "subscription: missing symbols"}
	}
	req := &SubscriptionRequestMsg{
		Schema:   schema,
		StypeIn:  stype,
		Symbols:  strings.Split(symbolsStr, ","),
		Snapshot: m["snapshot"] == "1",
		IsLast:   m["is_last"] == "1",
	}
	if startStr, ok := m["start"]; ok {
		ns, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return nil, &dbn.InvalidMessageError{Reason: "subscription: bad start " + startStr}
		}
		req.Start = time.Unix(0, ns).UTC()
	}
	if idStr, ok := m["id"]; ok {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, &dbn.InvalidMessageError{Reason: "subscription: bad id " + idStr}
		}
		req.ID = id
	}
	return req, nil
}

///////////////////////////////////////////////////////////////////////////////

// SessionStartMsg notifies the gateway to start sending records.
type SessionStartMsg struct {
	StartSession string // key: start_session ("0")
}

// Encode serializes the request to its line-protocol form.
func (m *SessionStartMsg) Encode() []byte {
	startSession := m.StartSession
	if startSession == "" {
		startSession = "0"
	}
	return fmt.Appendf(nil, "start_session=%s\n", startSession)
}

// ParseSessionStartMsg parses a control message line into a SessionStartMsg.
func ParseSessionStartMsg(b []byte) (*SessionStartMsg, error) {
	m := parseControlMessage(b)
	startSession, ok := m["start_session"]
	if !ok {
		return nil, &dbn.InvalidMessageError{Reason: "session start: missing start_session"}
	}
	return &SessionStartMsg{StartSession: startSession}, nil
}
