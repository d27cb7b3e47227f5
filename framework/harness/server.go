package harness

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const httpListenerTimeout = time.Second * 10

// LocalServer is an HTTP listener started by StartServer.
type LocalServer struct {
	server *http.Server
	port   int
}

// StartServer starts an HTTP server on the specified port and does not return until the
// server is definitely accepting requests. HEAD requests to any path are answered with 200
// so that readiness can be detected without involving the handler.
func StartServer(port int, handler http.Handler) (*LocalServer, error) {
	server := &http.Server{
		Addr: fmt.Sprintf(":%d", port),
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead {
				w.WriteHeader(200)
				return
			}
			handler.ServeHTTP(w, r)
		}),
	}
	listenErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Wait till the server is definitely listening for requests before we run any tests
	deadline := time.NewTimer(httpListenerTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	probe := &http.Client{Timeout: time.Millisecond * 500}
	for {
		select {
		case err := <-listenErr:
			return nil, fmt.Errorf("could not start listener on port %d: %w", port, err)
		case <-deadline.C:
			_ = server.Close()
			return nil, fmt.Errorf("could not detect own listener at %s", server.Addr)
		case <-ticker.C:
			resp, err := probe.Head(fmt.Sprintf("http://localhost:%d", port))
			if err == nil {
				_ = resp.Body.Close()
				if resp.StatusCode == 200 {
					return &LocalServer{server: server, port: port}, nil
				}
			}
		}
	}
}

// BaseURL returns the URL of the server as seen from this host.
func (s *LocalServer) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Close shuts down the server, waiting briefly for active requests to finish.
func (s *LocalServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return s.server.Shutdown(ctx)
}
