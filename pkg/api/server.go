package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/mafia/pkg/api/handlers"
	"github.com/cbodonnell/mafia/pkg/api/middleware"
	"github.com/cbodonnell/mafia/pkg/game/roles"
	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/messages"
	"github.com/cbodonnell/mafia/pkg/queue"
	"github.com/cbodonnell/mafia/pkg/state"
	"github.com/cbodonnell/mafia/pkg/stores"
	"github.com/cbodonnell/mafia/pkg/version"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	Players      *stores.PlayerStore
	RoleConfigs  *stores.RoleConfigStore
	CommandQueue queue.Queue
	StateManager state.StateManager
	// Rand shuffles roles when a game starts
	Rand roles.Intn
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewRouter registers the API routes.
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(), middleware.NewCORSMiddleware())

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, version.Get())
	}).Methods(http.MethodGet)

	r.HandleFunc("/players", handlers.HandleGetPlayers(opts.Players)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/players", handlers.HandlePutPlayers(opts.Players)).Methods(http.MethodPut)
	r.HandleFunc("/roles-config", handlers.HandleGetRolesConfig(opts.RoleConfigs)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/roles-config", handlers.HandlePutRolesConfig(opts.RoleConfigs)).Methods(http.MethodPut)

	r.HandleFunc("/game", handlers.HandleGetGame(opts.StateManager)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/game", handlers.HandleStartGame(handlers.NewStartGameOptions{
		Players:      opts.Players,
		RoleConfigs:  opts.RoleConfigs,
		CommandQueue: opts.CommandQueue,
		Rand:         opts.Rand,
	})).Methods(http.MethodPost)

	g := r.PathPrefix("/game").Subrouter()
	g.HandleFunc("/votes", handlers.HandleCastVote(opts.CommandQueue)).Methods(http.MethodPost, http.MethodOptions)
	g.HandleFunc("/advance", handlers.HandleCommand(opts.CommandQueue, messages.MessageTypeClientAdvancePhase)).Methods(http.MethodPost, http.MethodOptions)
	g.HandleFunc("/announcement/ack", handlers.HandleCommand(opts.CommandQueue, messages.MessageTypeClientAcknowledgeAnnouncement)).Methods(http.MethodPost, http.MethodOptions)
	g.HandleFunc("/reveal/ack", handlers.HandleCommand(opts.CommandQueue, messages.MessageTypeClientAcknowledgeReveal)).Methods(http.MethodPost, http.MethodOptions)
	g.HandleFunc("/setup", handlers.HandleCommand(opts.CommandQueue, messages.MessageTypeClientReturnToSetup)).Methods(http.MethodPost, http.MethodOptions)

	return r
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
