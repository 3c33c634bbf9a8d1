// Zaparoo Extract
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Extract.
//
// Zaparoo Extract is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Extract is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Extract.  If not, see <http://www.gnu.org/licenses/>.

// Package api serves the extractor over JSON-RPC 2.0, on a websocket and
// on plain HTTP POST.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-extract/pkg/api/methods"
	apimiddleware "github.com/ZaparooProject/zaparoo-extract/pkg/api/middleware"
	"github.com/ZaparooProject/zaparoo-extract/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-extract/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-extract/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-extract/pkg/config"
	"github.com/ZaparooProject/zaparoo-extract/pkg/database/prefs"
	"github.com/ZaparooProject/zaparoo-extract/pkg/helpers/syncutil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

// MaxRequestSize caps request bodies and websocket messages.
const MaxRequestSize = 2 << 20

var JSONRPCErrorParseError = models.ErrorObject{
	Code:    -32700,
	Message: "Parse error",
}

var JSONRPCErrorInvalidRequest = models.ErrorObject{
	Code:    -32600,
	Message: "Invalid Request",
}

var JSONRPCErrorMethodNotFound = models.ErrorObject{
	Code:    -32601,
	Message: "Method not found",
}

var JSONRPCErrorInvalidParams = models.ErrorObject{
	Code:    -32602,
	Message: "Invalid params",
}

var JSONRPCErrorServerError = models.ErrorObject{
	Code:    -32000,
	Message: "Server error",
}

var (
	ErrMethodExists  = errors.New("method already registered")
	ErrUnknownMethod = errors.New("unknown method")
)

type MethodFunc func(requests.RequestEnv) (any, error)

// MethodMap is a concurrency safe registry of JSON-RPC methods.
type MethodMap struct {
	methods map[string]MethodFunc
	mu      syncutil.RWMutex
}

// NewMethodMap returns a map holding every built in method.
func NewMethodMap() *MethodMap {
	m := &MethodMap{methods: make(map[string]MethodFunc)}
	defaults := map[string]MethodFunc{
		models.MethodFormats:     methods.HandleFormats,
		models.MethodExtract:     methods.HandleExtract,
		models.MethodCommand:     methods.HandleCommand,
		models.MethodPrefs:       methods.HandlePrefs,
		models.MethodPrefsUpdate: methods.HandlePrefsUpdate,
		models.MethodTemplates:   methods.HandleTemplates,
		models.MethodVersion:     methods.HandleVersion,
	}
	for name, fn := range defaults {
		m.methods[name] = fn
	}
	return m
}

func (m *MethodMap) AddMethod(name string, fn MethodFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = strings.ToLower(name)
	if _, ok := m.methods[name]; ok {
		return fmt.Errorf("%w: %s", ErrMethodExists, name)
	}
	m.methods[name] = fn
	return nil
}

func (m *MethodMap) GetMethod(name string) (MethodFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.methods[strings.ToLower(name)]
	return fn, ok
}

// Server holds the dependencies shared by every request.
type Server struct {
	cfg     *config.Instance
	store   prefs.Store
	clock   clockwork.Clock
	methods *MethodMap
	limiter *apimiddleware.IPRateLimiter
}

func NewServer(cfg *config.Instance, store prefs.Store, clock clockwork.Clock) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		clock:   clock,
		methods: NewMethodMap(),
		limiter: apimiddleware.NewIPRateLimiter(clock),
	}
}

func (s *Server) Methods() *MethodMap {
	return s.methods
}

func errorFor(err error) models.ErrorObject {
	var ve *validation.Error
	switch {
	case errors.Is(err, ErrUnknownMethod):
		return JSONRPCErrorMethodNotFound
	case errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams):
		return JSONRPCErrorInvalidParams
	case errors.As(err, &ve):
		return models.ErrorObject{Code: JSONRPCErrorInvalidParams.Code, Message: ve.Error()}
	default:
		return models.ErrorObject{Code: JSONRPCErrorServerError.Code, Message: err.Error()}
	}
}

func (s *Server) handleRequest(env requests.RequestEnv, req models.RequestObject) (any, error) {
	log.Debug().Str("method", req.Method).Msg("received request")

	fn, ok := s.methods.GetMethod(req.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, req.Method)
	}

	env.ID = *req.ID
	env.Params = req.Params
	return fn(env)
}

func marshalResponse(id uuid.UUID, result any) ([]byte, error) {
	data, err := json.Marshal(models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshalling response: %w", err)
	}
	return data, nil
}

func marshalError(id uuid.UUID, e models.ErrorObject) []byte {
	log.Debug().Int("code", e.Code).Str("message", e.Message).Msg("sending error")
	data, err := json.Marshal(models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &e,
	})
	if err != nil {
		log.Error().Err(err).Msg("error marshalling error response")
		return nil
	}
	return data
}

// processMessage runs one JSON-RPC message and returns the encoded reply,
// or nil for notifications.
func (s *Server) processMessage(ctx context.Context, remoteAddr string, msg []byte) []byte {
	if !json.Valid(msg) {
		log.Debug().Msg("data not valid json")
		return marshalError(uuid.Nil, JSONRPCErrorParseError)
	}

	var req models.RequestObject
	if err := json.Unmarshal(msg, &req); err != nil {
		return marshalError(uuid.Nil, JSONRPCErrorInvalidRequest)
	}

	id := uuid.Nil
	if req.ID != nil {
		id = *req.ID
	}

	if req.JSONRPC != "2.0" {
		log.Debug().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
		return marshalError(id, JSONRPCErrorInvalidRequest)
	}
	if req.Method == "" {
		return marshalError(id, JSONRPCErrorInvalidRequest)
	}
	if req.ID == nil {
		log.Debug().Str("method", req.Method).Msg("received notification, ignoring")
		return nil
	}

	resp, err := s.handleRequest(requests.RequestEnv{
		Context: ctx,
		Config:  s.cfg,
		Prefs:   s.store,
		Clock:   s.clock,
		IsLocal: apimiddleware.IsLoopbackAddr(remoteAddr),
	}, req)
	if err != nil {
		log.Debug().Err(err).Str("method", req.Method).Msg("request failed")
		return marshalError(id, errorFor(err))
	}

	data, err := marshalResponse(id, resp)
	if err != nil {
		log.Error().Err(err).Msg("error sending response")
		return marshalError(id, JSONRPCErrorServerError)
	}
	return data
}

func (s *Server) handleWSMessage(session *melody.Session, msg []byte) {
	// ping command for heartbeat operation
	if bytes.Equal(msg, []byte("ping")) {
		if err := session.Write([]byte("pong")); err != nil {
			log.Error().Err(err).Msg("sending pong")
		}
		return
	}

	reply := s.processMessage(session.Request.Context(), session.Request.RemoteAddr, msg)
	if reply == nil {
		return
	}
	if err := session.Write(reply); err != nil {
		log.Error().Err(err).Msg("error sending response")
	}
}

func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestSize))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	reply := s.processMessage(r.Context(), r.RemoteAddr, body)
	if reply == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(reply); err != nil {
		log.Error().Err(err).Msg("error writing http response")
	}
}

// Router builds the HTTP handler for the API.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(config.APIRequestTimeout))
	r.Use(apimiddleware.HTTPRateLimitMiddleware(s.limiter, MaxRequestSize))

	origins := allowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	session := melody.New()
	session.Config.MaxMessageSize = MaxRequestSize
	session.Upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	session.HandleMessage(apimiddleware.WebSocketRateLimitHandler(s.limiter, s.handleWSMessage))

	r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		err := session.HandleRequest(w, r)
		if err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})
	r.Post("/api", s.handlePostRequest)

	return r
}

// Start serves the API on the configured address until ctx is done.
func Start(ctx context.Context, cfg *config.Instance, store prefs.Store, clock clockwork.Clock) error {
	s := NewServer(cfg, store, clock)
	s.limiter.StartCleanup(ctx)

	addr := cfg.APIListen()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(cfg.AllowedOrigins()),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting api server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Debug().Msg("closing HTTP server via context cancellation")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}
