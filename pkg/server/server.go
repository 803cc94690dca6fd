package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type Webserver struct {
	Logger     *zap.SugaredLogger
	Port       int
	SSLCrtFile string
	SSLKeyFile string
	Router     *mux.Router
	server     *http.Server
	mu         sync.Mutex
	listener   net.Listener
}

func (s *Webserver) logger() *zap.SugaredLogger {
	if s.Logger == nil {
		s.Logger = zap.NewNop().Sugar()
	}
	return s.Logger
}

//Start blocks until the context gets closed or the server could not be started
func (s *Webserver) Start(ctx context.Context) error {
	if err := s.listen(); err != nil {
		return err
	}
	s.logger().Infof("Webserver starting and listening on %s", s.listener.Addr())
	errCh := s.startServer(s.Router)
	select {
	case err := <-errCh:
		s.logger().Errorf("Webserver startup failed: %s", err)
		return err
	case <-ctx.Done():
		s.logger().Info("Webserver stopping (context got closed)")
		return s.stopServer()
	}
}

//Addr returns the address the server is listening on (available after Start was called)
func (s *Webserver) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Webserver) listen() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.Port))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = listener
	return nil
}

func (s *Webserver) startServer(router *mux.Router) <-chan error {
	errCh := make(chan error, 1)
	s.server = &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		var err error
		if s.SSLCrtFile != "" && s.SSLKeyFile != "" {
			err = s.server.ServeTLS(s.listener, s.SSLCrtFile, s.SSLKeyFile)
		} else {
			err = s.server.Serve(s.listener)
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

func (s *Webserver) stopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.server.Shutdown(ctx)

	if err == nil {
		s.logger().Info("Webserver gracefully stopped")
	} else {
		s.logger().Errorf("Webserver shutdown failed: %s", err)
	}
	return err
}
