// Package httpapi exposes the services over HTTP under /api.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/scuttlebutt/internal/logging"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/auth"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/metrics"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/services"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address string
	svc     *services.Services
	tokens  *auth.TokenService
	logger  logging.Logger
	metrics bool
}

type Option func(*HTTPServer)

// WithMetrics mounts the Prometheus handler on /metrics.
func WithMetrics(enabled bool) Option {
	return func(s *HTTPServer) { s.metrics = enabled }
}

func NewHTTPServer(address string, l logging.Logger, svc *services.Services, tokens *auth.TokenService, opts ...Option) *HTTPServer {
	s := &HTTPServer{
		address: address,
		svc:     svc,
		tokens:  tokens,
		logger:  l.With("module", "http_server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the request multiplexer with all routes and middleware.
func (s *HTTPServer) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.recoverer, s.requestLogger, s.instrument)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	if s.metrics {
		r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/login", s.login).Methods(http.MethodPost)

	api.HandleFunc("/user", s.getUser).Methods(http.MethodGet)
	api.HandleFunc("/user", s.createUser).Methods(http.MethodPost)
	api.Handle("/user", s.authenticated(s.updateUser)).Methods(http.MethodPut)
	api.Handle("/user", s.authenticated(s.deleteUser)).Methods(http.MethodDelete)
	api.Handle("/user/groups", s.authenticated(s.userGroups)).Methods(http.MethodGet)
	api.Handle("/user/groups", s.authenticated(s.leaveGroup)).Methods(http.MethodDelete)
	api.Handle("/user/dms", s.authenticated(s.userDMs)).Methods(http.MethodGet)
	api.Handle("/user/dms", s.authenticated(s.leaveDM)).Methods(http.MethodDelete)

	api.Handle("/group", s.authenticated(s.getGroup)).Methods(http.MethodGet)
	api.Handle("/group", s.authenticated(s.createGroup)).Methods(http.MethodPost)
	api.Handle("/group", s.authenticated(s.renameGroup)).Methods(http.MethodPut)
	api.Handle("/group", s.authenticated(s.deleteGroup)).Methods(http.MethodDelete)
	api.Handle("/dm", s.authenticated(s.createDM)).Methods(http.MethodPost)
	api.Handle("/group/members", s.authenticated(s.groupMembers)).Methods(http.MethodGet)
	api.Handle("/group/members", s.authenticated(s.addGroupMember)).Methods(http.MethodPut)
	api.Handle("/group/members", s.authenticated(s.removeGroupMember)).Methods(http.MethodDelete)
	api.Handle("/group/admin", s.authenticated(s.groupAdmins)).Methods(http.MethodGet)
	api.Handle("/group/admin", s.authenticated(s.addGroupAdmin)).Methods(http.MethodPut)
	api.Handle("/group/admin", s.authenticated(s.removeGroupAdmin)).Methods(http.MethodDelete)
	api.Handle("/group/channels", s.authenticated(s.groupChannels)).Methods(http.MethodGet)
	api.Handle("/group/channels", s.authenticated(s.createChannel)).Methods(http.MethodPost)

	api.Handle("/channel", s.authenticated(s.getChannel)).Methods(http.MethodGet)
	api.Handle("/channel", s.authenticated(s.renameChannel)).Methods(http.MethodPut)
	api.Handle("/channel", s.authenticated(s.deleteChannel)).Methods(http.MethodDelete)
	api.Handle("/channel/private", s.authenticated(s.setChannelPrivate)).Methods(http.MethodPut)
	api.Handle("/channel/members", s.authenticated(s.channelMembers)).Methods(http.MethodGet)
	api.Handle("/channel/members", s.authenticated(s.addChannelMember)).Methods(http.MethodPut)
	api.Handle("/channel/members", s.authenticated(s.removeChannelMember)).Methods(http.MethodDelete)
	api.Handle("/channel/term", s.authenticated(s.searchChannel)).Methods(http.MethodGet)
	api.Handle("/channel/messages", s.authenticated(s.channelMessages)).Methods(http.MethodGet)

	api.Handle("/message/thread", s.authenticated(s.createThread)).Methods(http.MethodPut)
	api.Handle("/message", s.authenticated(s.deleteMessage)).Methods(http.MethodDelete)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

func (s *HTTPServer) healthz(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "OK")
}
