package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/orbita/internal/config"
	"github.com/tartampluch/orbita/internal/importer"
	"github.com/tartampluch/orbita/internal/locale"
)

var (
	importRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.MetricsNamespace,
		Subsystem: config.MetricsSubsystem,
		Name:      config.MetricRequestsName,
		Help:      config.MetricRequestsHelp,
	}, []string{config.MetricLabelFormat, config.MetricLabelResult})

	importedContacts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.MetricsNamespace,
		Subsystem: config.MetricsSubsystem,
		Name:      config.MetricContactsName,
		Help:      config.MetricContactsHelp,
	}, []string{config.MetricLabelFormat})
)

// ContactStore is the optional sink for successfully imported contacts.
type ContactStore interface {
	Save(ctx context.Context, contacts []importer.Contact) error
	List(ctx context.Context) ([]importer.Contact, error)
}

// ImportServer exposes the import pipeline over HTTP.
type ImportServer struct {
	Addr string

	// Store receives imported contacts. Nil disables persistence and the
	// contacts listing.
	Store ContactStore
}

// NewImportServer creates a server listening on addr.
func NewImportServer(addr string, store ContactStore) *ImportServer {
	return &ImportServer{Addr: addr, Store: store}
}

// photoMatchRequest is the body of the photo matching endpoint.
type photoMatchRequest struct {
	Contacts []importer.Contact `json:"contacts"`
	Photos   []importer.Photo   `json:"photos"`
}

// Handler builds the router. It is exported so tests can drive it without a listener.
func (s *ImportServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(config.RouteImport, s.handleImport).Methods(http.MethodPost)
	r.HandleFunc(config.RoutePhotos, s.handlePhotos).Methods(http.MethodPost)
	r.HandleFunc(config.RouteContacts, s.handleContacts).Methods(http.MethodGet)
	r.HandleFunc(config.RouteHealth, handleHealth).Methods(http.MethodGet, http.MethodHead)
	r.Handle(config.RouteMetrics, promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *ImportServer) Start(ctx context.Context) error {
	if s.Addr == "" {
		return errors.New(config.ErrAddrRequired)
	}

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.Addr,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// handleImport runs the pipeline named by the {format} route variable on the
// raw request body. Diagnostics are localized from Accept-Language.
func (s *ImportServer) handleImport(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)[config.RouteVarFormat]
	imp := importer.New(locale.New(r.Header.Get(config.HeaderAcceptLang)))

	if !importer.ValidFormat(format) {
		importRequests.WithLabelValues(config.MetricFormatUnknown, config.MetricResultFail).Inc()
		writeJSON(w, http.StatusBadRequest, imp.ImportFile(format, http.NoBody))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, config.MaxUploadSize))
	if err != nil {
		importRequests.WithLabelValues(format, config.MetricResultFail).Inc()
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.fail(w, status, config.ErrReadSource, err)
		return
	}

	res := imp.ImportFile(format, bytes.NewReader(body))

	if res.Success && s.Store != nil {
		if err := s.Store.Save(r.Context(), res.Contacts); err != nil {
			importRequests.WithLabelValues(format, config.MetricResultFail).Inc()
			s.fail(w, http.StatusInternalServerError, config.ErrDBSave, err)
			return
		}
	}

	result := config.MetricResultOK
	status := http.StatusOK
	if !res.Success {
		result = config.MetricResultFail
		status = http.StatusUnprocessableEntity
	}
	importRequests.WithLabelValues(format, result).Inc()
	importedContacts.WithLabelValues(format).Add(float64(len(res.Contacts)))

	writeJSON(w, status, res)
}

// handlePhotos attaches photo URLs to the posted contacts.
func (s *ImportServer) handlePhotos(w http.ResponseWriter, r *http.Request) {
	var req photoMatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, config.MaxUploadSize))
	if err := dec.Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, config.ErrDecodeBody, err)
		return
	}

	writeJSON(w, http.StatusOK, importer.MapPhotos(req.Contacts, req.Photos))
}

func (s *ImportServer) handleContacts(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, config.ErrStoreMissing, http.StatusNotFound)
		return
	}

	contacts, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, config.ErrDBList, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	if r.Method == http.MethodGet {
		_, _ = io.WriteString(w, config.HealthOK)
	}
}

// fail logs err and answers with the technical message only.
func (s *ImportServer) fail(w http.ResponseWriter, status int, msg string, err error) {
	slog.Error(config.MsgRequestFailed,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyStatus, status,
		config.LogKeyError, fmt.Errorf("%s: %w", msg, err),
	)
	http.Error(w, msg, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
