package clock_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/hello-backend/internal/clock"
)

var _ = Describe("System clock", func() {
	It("should report the current time", func() {
		before := time.Now()
		now := clock.System().Now()
		Expect(now).To(BeTemporally(">=", before))
		Expect(now).To(BeTemporally("~", time.Now(), time.Second))
	})

	It("should tick at the requested interval", func() {
		ticker := clock.System().NewTicker(10 * time.Millisecond)
		defer ticker.Stop()

		Eventually(ticker.C()).Should(Receive())
	})
})
