package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"treasurehunt/environment"
	"treasurehunt/server/fastview"
	"treasurehunt/server/maze_views"
	"treasurehunt/server/root_view"
	"treasurehunt/server/session"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	channerics "github.com/niceyeti/channerics/channels"
	log "github.com/sirupsen/logrus"
)

// SESSION_TTL is how long a served page may take to open its websocket.
const SESSION_TTL = time.Minute

// pending is a session whose page was served but whose websocket has not connected yet.
type pending struct {
	sess   *session.Session
	root   *root_view.RootView
	cancel context.CancelFunc
}

// Server serves the play page. Every page load deals a new board in its own session,
// which the page's websocket then drives with key presses.
type Server struct {
	ctx    context.Context
	addr   string
	cfg    environment.Config
	router *mux.Router

	mu       sync.Mutex
	sessions map[uuid.UUID]*pending
}

// NewServer validates the environment config and sets up the routes. Sessions end when
// ctx is cancelled.
func NewServer(
	ctx context.Context,
	addr string,
	cfg environment.Config,
) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	server := &Server{
		ctx:      ctx,
		addr:     addr,
		cfg:      cfg,
		router:   mux.NewRouter(),
		sessions: map[uuid.UUID]*pending{},
	}
	server.router.HandleFunc("/", server.serveIndex).Methods(http.MethodGet)
	server.router.HandleFunc("/ws/{id}", server.serveWebsocket)
	return server, nil
}

// Handler is the server's router.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Serve listens until the server context is cancelled.
func (server *Server) Serve() error {
	srv := &http.Server{
		Addr:    server.addr,
		Handler: server.router,
		BaseContext: func(net.Listener) context.Context {
			return server.ctx
		},
	}

	go server.expireSessions(SESSION_TTL)
	go func() {
		<-server.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("server shutdown")
		}
	}()

	log.WithField("addr", server.addr).Info("serving")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Serve the index.html main page with a freshly dealt board.
func (server *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := session.New(server.cfg)
	if err != nil {
		log.WithError(err).Error("new session")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithCancel(server.ctx)
	root, err := root_view.NewRootView(ctx, sess.Frames())
	if err != nil {
		cancel()
		log.WithError(err).Error("build views")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Registered before rendering, since the page may connect before this handler returns.
	server.mu.Lock()
	server.sessions[sess.ID] = &pending{sess: sess, root: root, cancel: cancel}
	server.mu.Unlock()

	w.Header().Set("Content-Type", "text/html")
	if err := renderTemplate(w, root, maze_views.Convert(sess.Current())); err != nil {
		if entry, ok := server.take(sess.ID); ok {
			entry.cancel()
		}
		log.WithError(err).Error("render index")
		_, _ = w.Write([]byte(err.Error()))
		return
	}
	log.WithField("session", sess.ID).Debug("session created")
}

// serveWebsocket runs a served page's session: key presses from the page are applied to
// its environment, and the resulting view updates are published back.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "bad session id", http.StatusBadRequest)
		return
	}
	entry, ok := server.take(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	defer entry.cancel()

	cli, err := fastview.NewClient(entry.root.Updates(), w, r)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer cli.Close()

	logger := log.WithField("session", id)
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		if err := entry.sess.Run(ctx); err != nil {
			logger.WithError(err).Error("session failed")
			cancel()
		}
	}()
	go func() {
		for msg := range cli.Messages() {
			if err := entry.sess.Press(ctx, msg.Key); err != nil {
				return
			}
		}
	}()

	logger.Info("client connected")
	if err := cli.Sync(ctx); err != nil {
		logger.WithError(err).Warn("client sync")
	}
	logger.Info("client disconnected")
}

// take removes and returns a pending session.
func (server *Server) take(id uuid.UUID) (*pending, bool) {
	server.mu.Lock()
	defer server.mu.Unlock()
	entry, ok := server.sessions[id]
	delete(server.sessions, id)
	return entry, ok
}

// expireSessions cancels sessions whose page never connected.
func (server *Server) expireSessions(ttl time.Duration) {
	for range channerics.NewTicker(server.ctx.Done(), ttl/2) {
		server.expire(time.Now().Add(-ttl))
	}
}

func (server *Server) expire(before time.Time) (expired int) {
	server.mu.Lock()
	defer server.mu.Unlock()
	for id, entry := range server.sessions {
		if entry.sess.Created.Before(before) {
			entry.cancel()
			delete(server.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		log.WithField("count", expired).Debug("expired sessions")
	}
	return
}

func renderTemplate(
	w io.Writer,
	vc fastview.ViewComponent,
	data interface{},
) (err error) {
	t := template.New("index.html")
	var tname string
	if tname, err = vc.Parse(t); err != nil {
		return
	}
	if _, err = t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return
	}

	err = t.Execute(w, data)
	return
}
