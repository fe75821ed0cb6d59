// Copyright (c) 2025 Neomantra Corp

package dbn_live

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RecordQueue", func() {
	It("pops in FIFO order", func() {
		q := NewRecordQueue(4)
		q.Push([]byte("a"))
		q.Push([]byte("b"))

		v, ok := q.Pop()
		Expect(ok).To(BeTrue())
		Expect(string(v)).To(Equal("a"))

		v, ok = q.Pop()
		Expect(ok).To(BeTrue())
		Expect(string(v)).To(Equal("b"))
	})

	It("reports HighWater at or above half capacity", func() {
		q := NewRecordQueue(4)
		Expect(q.HighWater()).To(BeFalse())
		q.Push([]byte("a"))
		Expect(q.HighWater()).To(BeFalse())
		q.Push([]byte("b"))
		Expect(q.HighWater()).To(BeTrue())
	})

	It("drops the oldest record once full rather than blocking", func() {
		q := NewRecordQueue(2)
		q.Push([]byte("a"))
		q.Push([]byte("b"))
		q.Push([]byte("c"))
		Expect(q.Len()).To(Equal(2))

		v, ok := q.Pop()
		Expect(ok).To(BeTrue())
		Expect(string(v)).To(Equal("b"))
	})

	It("TryPop returns immediately when empty", func() {
		q := NewRecordQueue(2)
		_, ok := q.TryPop()
		Expect(ok).To(BeFalse())
	})

	It("unblocks Pop and drains buffered records once closed", func() {
		q := NewRecordQueue(2)
		q.Push([]byte("a"))
		q.Close()

		v, ok := q.Pop()
		Expect(ok).To(BeTrue())
		Expect(string(v)).To(Equal("a"))

		_, ok = q.Pop()
		Expect(ok).To(BeFalse())
	})
})
