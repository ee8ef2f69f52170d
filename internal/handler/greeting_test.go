package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/hello-backend/internal/handler"
)

var _ = Describe("GreetingHandler", func() {
	var h *handler.GreetingHandler

	BeforeEach(func() {
		var err error
		h, err = handler.NewGreetingHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("ServeHTTP", func() {
		It("should answer with the greeting", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(w.Body.String()).To(Equal(`{"data":"Hello Backend"}`))

			var body map[string]string
			Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(Equal(map[string]string{"data": "Hello Backend"}))
		})

		It("should answer HEAD without a body", func() {
			req := httptest.NewRequest(http.MethodHead, "/", nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.Len()).To(BeZero())
		})

		It("should ignore query and body input", func() {
			req := httptest.NewRequest(http.MethodGet, "/?name=x", nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			Expect(w.Body.String()).To(Equal(`{"data":"Hello Backend"}`))
		})
	})
})
