// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"context"
	"crypto/tls"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/gorilla/mux"
)

// Options represent server options.
type Options struct {
	Addr     string
	Cert     *tls.Certificate
	DataDir  string
	Debug    bool
	Storage  *storage.Storage
	App      *App // Allow injecting a pre-loaded App (tests)
	Listener net.Listener
}

// Server represents the running server instance.
type Server struct {
	httpServer *http.Server
	hub        *FeedHub
	App        *App
}

// Shutdown gracefully shuts down the server and closes live feeds.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

// NewHandler builds the API handler tree around an App.
func NewHandler(opts Options) (http.Handler, *App, *FeedHub) {
	app := opts.App
	if app == nil {
		app = NewApp(opts.Storage)
	}
	app.Debug = opts.Debug

	hub := NewFeedHub()
	app.OnGameUpdate(hub.Broadcast)

	h := &handlers{app: app, hub: hub}

	router := mux.NewRouter()
	router.Use(recoveryMiddleware)
	if opts.Debug {
		router.Use(loggingMiddleware)
	}

	router.HandleFunc("/health", h.health).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/store", h.getStore).Methods("GET")
	api.HandleFunc("/buttons", h.getStatButtons).Methods("GET")

	api.HandleFunc("/roster/{teamKey}", h.getRoster).Methods("GET")
	api.HandleFunc("/roster/{teamKey}/players/{playerID}", h.updateRosterPlayer).Methods("PATCH")
	api.HandleFunc("/roster/{teamKey}/import", h.importRoster).Methods("POST")

	api.HandleFunc("/games", h.listGames).Methods("GET")
	api.HandleFunc("/games", h.createGame).Methods("POST")
	api.HandleFunc("/games/{gameID}", h.getGame).Methods("GET")
	api.HandleFunc("/games/{gameID}", h.updateGameMeta).Methods("PATCH")
	api.HandleFunc("/games/{gameID}/events", h.applyEvent).Methods("POST")
	api.HandleFunc("/games/{gameID}/undo", h.undoLast).Methods("POST")
	api.HandleFunc("/games/{gameID}/period", h.setPeriod).Methods("POST")
	api.HandleFunc("/games/{gameID}/period/advance", h.advancePeriod).Methods("POST")
	api.HandleFunc("/games/{gameID}/clear", h.clearGame).Methods("POST")
	api.HandleFunc("/games/{gameID}/players/{playerID}/clear", h.clearPlayer).Methods("POST")
	api.HandleFunc("/games/{gameID}/opponents/{playerID}", h.updateGameOpponent).Methods("PATCH")
	api.HandleFunc("/games/{gameID}/export", h.exportGame).Methods("GET")
	api.HandleFunc("/games/{gameID}/live", h.serveLiveFeed).Methods("GET")

	api.HandleFunc("/season/{teamKey}", h.getSeason).Methods("GET")
	api.HandleFunc("/season/{teamKey}/export", h.exportSeason).Methods("GET")

	return router, app, hub
}

// StartServer starts the web server and registers the API handlers.
func StartServer(opts Options) (*Server, error) {
	handler, app, hub := NewHandler(opts)

	httpServer := &http.Server{
		Addr:         opts.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	if opts.Cert != nil {
		httpServer.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{*opts.Cert},
		}
	}

	server := &Server{httpServer: httpServer, hub: hub, App: app}

	serve := func() error {
		if opts.Listener != nil {
			if opts.Cert != nil {
				return httpServer.ServeTLS(opts.Listener, "", "")
			}
			return httpServer.Serve(opts.Listener)
		}
		if opts.Cert != nil {
			return httpServer.ListenAndServeTLS("", "")
		}
		return httpServer.ListenAndServe()
	}

	go func() {
		if err := serve(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	return server, nil
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
