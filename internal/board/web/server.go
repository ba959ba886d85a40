// Package web serves the board's server-rendered pages. Every form it renders
// carries the formguard runtime, and every submission is re-validated with
// the same rules so a blocked submit looks identical with or without scripts.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	formguard "github.com/goliatone/go-formguard"
	"github.com/goliatone/go-formguard/internal/board/auth"
	"github.com/goliatone/go-formguard/internal/board/store"
	"github.com/goliatone/go-formguard/pkg/i18n"
)

// Server wires the board handlers together.
type Server struct {
	logger     *zap.Logger
	store      *store.Store
	sessions   *auth.Sessions
	forms      *Forms
	templates  *templates
	sanitizer  *bluemonday.Policy
	translator i18n.Translator
	locale     string
}

// New builds a Server, loading form models from the embedded API document.
func New(ctx context.Context, logger *zap.Logger, st *store.Store, sessions *auth.Sessions) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	forms, err := LoadForms(ctx)
	if err != nil {
		return nil, err
	}
	tpl, err := newTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		logger:     logger,
		store:      st,
		sessions:   sessions,
		forms:      forms,
		templates:  tpl,
		sanitizer:  bluemonday.UGCPolicy(),
		translator: i18n.Default(),
		locale:     i18n.DefaultLocale,
	}, nil
}

// Routes returns the board router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(auth.OptionalUser(s.sessions, s.store))

	r.Handle("/runtime/*", http.StripPrefix("/runtime/",
		http.FileServerFS(formguard.RuntimeAssetsFS())))

	r.Get("/health", s.handleHealth)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/posts", http.StatusSeeOther)
	})

	r.Get("/register", s.handleRegisterPage)
	r.Post("/register", s.handleRegister)
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	r.Get("/posts", s.handlePostList)
	r.Get("/posts/{id:[0-9]+}", s.handlePostDetail)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/posts/new", s.handleNewPostPage)
		r.Post("/posts/new", s.handleCreatePost)
		r.Get("/posts/{id:[0-9]+}/edit", s.handleEditPostPage)
		r.Post("/posts/{id:[0-9]+}/edit", s.handleUpdatePost)
		r.Post("/posts/{id:[0-9]+}/delete", s.handleDeletePost)
		r.Get("/profile", s.handleProfile)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
