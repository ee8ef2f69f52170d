package httpserver_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/hello-backend/internal/httpserver"
)

var _ = Describe("HTTP Server", func() {
	var quiet *slog.Logger

	BeforeEach(func() {
		quiet = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	Context("server creation", func() {
		It("creates server with valid address", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			srv, err := httpserver.New("localhost:9999", handler)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
			Expect(srv.Addr()).To(Equal("localhost:9999"))
			Expect(srv.String()).To(Equal("HTTPServer[localhost:9999]"))
		})

		It("creates server with IP address", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			srv, err := httpserver.New("127.0.0.1:9999", handler)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("handles port-only address", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			srv, err := httpserver.New(":5000", handler)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("rejects invalid address", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			srv, err := httpserver.New("invalid:host:port", handler)
			Expect(err).To(HaveOccurred())
			Expect(srv).To(BeNil())
		})

		It("rejects an empty port", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			_, err := httpserver.New("localhost:", handler)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("binding", func() {
		It("binds the requested port", func() {
			probe, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			addr := probe.Addr().String()
			Expect(probe.Close()).To(Succeed())

			srv, err := httpserver.New(addr, http.NotFoundHandler(), httpserver.WithLogger(quiet))
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Listen()).To(Succeed())
			defer srv.Stop()

			Expect(srv.Addr()).To(Equal(addr))
		})

		It("is idempotent", func() {
			srv, err := httpserver.New("127.0.0.1:0", http.NotFoundHandler(), httpserver.WithLogger(quiet))
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Listen()).To(Succeed())
			defer srv.Stop()

			first := srv.Addr()
			Expect(srv.Listen()).To(Succeed())
			Expect(srv.Addr()).To(Equal(first))
		})

		It("reports a port already in use", func() {
			taken, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			defer taken.Close()

			srv, err := httpserver.New(taken.Addr().String(), http.NotFoundHandler(), httpserver.WithLogger(quiet))
			Expect(err).NotTo(HaveOccurred())

			Expect(srv.Listen()).To(HaveOccurred())
			Expect(srv.Run(context.Background())).To(HaveOccurred())
		})
	})

	Context("server lifecycle", func() {
		var (
			testServer *httpserver.Server
			ctx        context.Context
			cancel     context.CancelFunc
			done       chan error
		)

		BeforeEach(func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("test"))
			})

			var err error
			testServer, err = httpserver.New("127.0.0.1:0", handler, httpserver.WithLogger(quiet))
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())

			ctx, cancel = context.WithCancel(context.Background())
			done = make(chan error, 1)
			go func(srv *httpserver.Server, ctx context.Context, done chan<- error) {
				done <- srv.Run(ctx)
			}(testServer, ctx, done)
		})

		AfterEach(func() {
			cancel()
			testServer.Stop()
		})

		It("starts and handles requests", func() {
			var resp *http.Response
			Eventually(func() error {
				var err error
				resp, err = http.Get("http://" + testServer.Addr())
				return err
			}).Should(Succeed())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(Equal("test"))
		})

		It("returns cleanly when the context is cancelled", func() {
			cancel()
			Eventually(done, 2*time.Second).Should(Receive(BeNil()))
		})

		It("returns cleanly on Stop", func() {
			testServer.Stop()
			Eventually(done, 2*time.Second).Should(Receive(BeNil()))
		})

		It("shuts down gracefully", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			Expect(testServer.Shutdown(ctx)).To(Succeed())
			Eventually(done, 2*time.Second).Should(Receive(BeNil()))
		})
	})
})
