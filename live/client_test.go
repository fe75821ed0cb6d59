// Copyright (c) 2025 Neomantra Corp

package dbn_live

import (
	"strings"
	"time"

	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newTestLiveClient() *LiveClient {
	c, err := NewLiveClient(LiveConfig{
		ApiKey:  strings.Repeat("a", API_KEY_LENGTH),
		Dataset: "GLBX.MDP3",
	}, ReconnectNone)
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("LiveClient", func() {
	Describe("Subscribe", func() {
		It("defaults an empty symbol list to ALL_SYMBOLS and records the call", func() {
			c := newTestLiveClient()
			_ = c.Subscribe("trades", dbn.SType_RawSymbol, nil, time.Time{}, false)

			Expect(c.subscribeCalls).To(HaveLen(1))
			Expect(c.subscribeCalls[0].req.Symbols).To(Equal([]string{AllSymbols}))
			Expect(c.subscribeCalls[0].req.Schema).To(Equal("trades"))
		})

		It("preserves an explicit symbol list", func() {
			c := newTestLiveClient()
			_ = c.Subscribe("trades", dbn.SType_RawSymbol, []string{"ESH4"}, time.Time{}, false)

			Expect(c.subscribeCalls).To(HaveLen(1))
			Expect(c.subscribeCalls[0].req.Symbols).To(Equal([]string{"ESH4"}))
		})

		It("errors before a connection is established", func() {
			c := newTestLiveClient()
			err := c.Subscribe("trades", dbn.SType_RawSymbol, []string{"ESH4"}, time.Time{}, false)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Start", func() {
		It("rejects a second call without touching the network", func() {
			c := newTestLiveClient()
			c.started = true // simulate an already-running client
			err := c.Start()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Stop", func() {
		It("is idempotent and safe to call before Start", func() {
			c := newTestLiveClient()
			Expect(c.Stop()).NotTo(HaveOccurred())
			Expect(c.Stop()).NotTo(HaveOccurred())
			Expect(c.stopped).To(BeTrue())
		})
	})

	Describe("AddCallback / AddStream / AddReconnectCallback", func() {
		It("registers callbacks for later replay on reconnect", func() {
			c := newTestLiveClient()
			called := false
			c.AddCallback(func(header dbn.RHeader, raw []byte) { called = true })
			c.AddReconnectCallback(func(gapStart, gapEnd time.Time) {})

			Expect(c.callbacks).To(HaveLen(1))
			Expect(c.reconnectCallbacks).To(HaveLen(1))
			_ = called
		})
	})

	Describe("finish", func() {
		It("closes closedCh exactly once and records the error", func() {
			c := newTestLiveClient()
			c.finish(nil)
			c.finish(nil) // must not panic on double-close

			select {
			case <-c.closedCh:
			default:
				Fail("closedCh should be closed after finish")
			}
		})
	})
})
