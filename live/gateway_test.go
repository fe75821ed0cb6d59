// Copyright (c) 2025 Neomantra Corp

package dbn_live

import (
	"time"

	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("GatewayCodec", func() {
	Context("GreetingMsg", func() {
		It("parses lsg_version", func() {
			msg, err := ParseGreetingMsg([]byte("lsg_version=1.0.0\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.LsgVersion).To(Equal("1.0.0"))
		})

		It("errors when lsg_version is missing", func() {
			_, err := ParseGreetingMsg([]byte("foo=bar\n"))
			Expect(err).To(HaveOccurred())
			Expect(err).To(BeAssignableToTypeOf(&dbn.InvalidMessageError{}))
		})
	})

	Context("ChallengeRequestMsg", func() {
		It("parses cram", func() {
			msg, err := ParseChallengeRequestMsg([]byte("cram=abc123\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.Cram).To(Equal("abc123"))
		})
	})

	Context("AuthenticationRequestMsg", func() {
		It("round-trips through Encode/Parse", func() {
			req := &AuthenticationRequestMsg{
				Auth:               "deadbeef-aBcDe",
				Dataset:            "GLBX.MDP3",
				Encoding:           dbn.Encoding_Dbn,
				TsOut:              true,
				HeartbeatIntervalS: 10,
				Client:             "Go 0.18.1",
			}
			parsed, err := ParseAuthenticationRequestMsg(req.Encode())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Auth).To(Equal(req.Auth))
			Expect(parsed.Dataset).To(Equal(req.Dataset))
			Expect(parsed.Encoding).To(Equal(req.Encoding))
			Expect(parsed.TsOut).To(BeTrue())
			Expect(parsed.HeartbeatIntervalS).To(Equal(10))
			Expect(parsed.Client).To(Equal(req.Client))
		})

		It("omits absent optional fields", func() {
			req := &AuthenticationRequestMsg{Auth: "a", Dataset: "GLBX.MDP3"}
			encoded := string(req.Encode())
			Expect(encoded).NotTo(ContainSubstring("heartbeat_interval_s"))
			Expect(encoded).NotTo(ContainSubstring("client="))
			Expect(encoded).To(ContainSubstring("encoding=dbn"))
		})
	})

	Context("AuthenticationResponseMsg", func() {
		It("parses a success response", func() {
			msg, err := ParseAuthenticationResponseMsg([]byte("success=1|session_id=123\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.Success).To(Equal("1"))
			Expect(msg.SessionID).To(Equal("123"))
		})

		It("parses a failure response", func() {
			msg, err := ParseAuthenticationResponseMsg([]byte("success=0|error=bad key\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.Success).To(Equal("0"))
			Expect(msg.Error).To(Equal("bad key"))
		})
	})

	Context("SubscriptionRequestMsg", func() {
		It("round-trips through Encode/Parse", func() {
			start := time.Unix(0, 1704186000000000000).UTC()
			req := &SubscriptionRequestMsg{
				Schema:   "trades",
				StypeIn:  dbn.SType_RawSymbol,
				Symbols:  []string{"ESH4", "CLZ4"},
				Start:    start,
				Snapshot: true,
				ID:       7,
				IsLast:   true,
			}
			parsed, err := ParseSubscriptionRequestMsg(req.Encode())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Schema).To(Equal(req.Schema))
			Expect(parsed.StypeIn).To(Equal(req.StypeIn))
			Expect(parsed.Symbols).To(Equal(req.Symbols))
			Expect(parsed.Start.UnixNano()).To(Equal(start.UnixNano()))
			Expect(parsed.Snapshot).To(BeTrue())
			Expect(parsed.ID).To(Equal(7))
			Expect(parsed.IsLast).To(BeTrue())
		})

		It("uses start= not the legacy time= key", func() {
			req := &SubscriptionRequestMsg{Schema: "trades", StypeIn: dbn.SType_RawSymbol, Symbols: []string{"ESH4"}, Start: time.Unix(0, 1).UTC()}
			encoded := string(req.Encode())
			Expect(encoded).To(ContainSubstring("start="))
			Expect(encoded).NotTo(ContainSubstring("time="))
		})
	})

	Context("SessionStartMsg", func() {
		It("round-trips through Encode/Parse", func() {
			msg := &SessionStartMsg{}
			parsed, err := ParseSessionStartMsg(msg.Encode())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.StartSession).To(Equal("0"))
		})
	})
})
