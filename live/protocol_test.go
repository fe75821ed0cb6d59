// Copyright (c) 2025 Neomantra Corp

package dbn_live

import (
	"strings"
	"time"

	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ProtocolState", func() {
	It("renders every state as a readable name", func() {
		Expect(StateNew.String()).To(Equal("NEW"))
		Expect(StateConnected.String()).To(Equal("CONNECTED"))
		Expect(StateChallenged.String()).To(Equal("CHALLENGED"))
		Expect(StateAuthenticated.String()).To(Equal("AUTHENTICATED"))
		Expect(StateSubscribed.String()).To(Equal("SUBSCRIBED"))
		Expect(StateStreaming.String()).To(Equal("STREAMING"))
		Expect(StateClosed.String()).To(Equal("CLOSED"))
	})

	It("falls back to UNKNOWN for an out-of-range value", func() {
		Expect(ProtocolState(99).String()).To(Equal("UNKNOWN"))
	})
})

var _ = Describe("LiveConfig", func() {
	Describe("validate", func() {
		It("rejects an unset ApiKey", func() {
			c := LiveConfig{Dataset: "GLBX.MDP3"}
			Expect(c.validate()).To(HaveOccurred())
		})

		It("rejects a wrong-length ApiKey", func() {
			c := LiveConfig{ApiKey: "tooshort", Dataset: "GLBX.MDP3"}
			Expect(c.validate()).To(HaveOccurred())
		})

		It("rejects an unset Dataset", func() {
			c := LiveConfig{ApiKey: strings.Repeat("a", API_KEY_LENGTH)}
			Expect(c.validate()).To(HaveOccurred())
		})

		It("accepts a well-formed config", func() {
			c := LiveConfig{ApiKey: strings.Repeat("a", API_KEY_LENGTH), Dataset: "GLBX.MDP3"}
			Expect(c.validate()).NotTo(HaveOccurred())
		})
	})

	Describe("fillDefaults", func() {
		It("fills in zero-valued fields", func() {
			c := LiveConfig{}
			c.fillDefaults()
			Expect(c.Client).To(Equal("Go " + DATABENTO_VERSION))
			Expect(c.ConnectTimeout).To(Equal(DefaultConnectTimeout))
			Expect(c.AuthTimeout).To(Equal(DefaultAuthTimeout))
			Expect(c.QueueCapacity).To(Equal(DefaultQueueCapacity))
			Expect(c.Logger).NotTo(BeNil())
		})

		It("leaves explicitly set fields alone", func() {
			c := LiveConfig{
				Client:         "my-client",
				ConnectTimeout: time.Second,
				AuthTimeout:    time.Second,
				QueueCapacity:  16,
			}
			c.fillDefaults()
			Expect(c.Client).To(Equal("my-client"))
			Expect(c.ConnectTimeout).To(Equal(time.Second))
			Expect(c.AuthTimeout).To(Equal(time.Second))
			Expect(c.QueueCapacity).To(Equal(16))
		})
	})
})

var _ = Describe("NewLiveProtocol", func() {
	It("rejects an invalid config before touching the network", func() {
		_, err := NewLiveProtocol(LiveConfig{})
		Expect(err).To(HaveOccurred())
	})

	It("derives the gateway hostname from the dataset", func() {
		p, err := NewLiveProtocol(LiveConfig{
			ApiKey:  strings.Repeat("a", API_KEY_LENGTH),
			Dataset: "GLBX.MDP3",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.GetGateway()).To(Equal("glbx-mdp3" + LIVE_HOST_SUFFIX))
		Expect(p.State()).To(Equal(StateNew))
	})
})

var _ = Describe("dbn.DatasetToHostname", func() {
	It("lowercases and dashes the dataset code", func() {
		Expect(dbn.DatasetToHostname("GLBX.MDP3")).To(Equal("glbx-mdp3"))
	})
})
