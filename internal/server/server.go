// Package server exposes the profit calculator as an HTTP upload form.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/profitcalc/profitcalc/internal/ledger"
	"github.com/profitcalc/profitcalc/internal/profit"
	"github.com/profitcalc/profitcalc/internal/report"
)

// Options configures a Server.
type Options struct {
	Rules          profit.Rules
	Registry       *ledger.Registry
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Server handles ledger uploads. It keeps no state between requests.
type Server struct {
	opts Options
}

const defaultMaxUploadBytes = 10 << 20

// New creates a Server. Zero-valued options are replaced by defaults.
func New(opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.Registry == nil {
		opts.Registry = ledger.DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{opts: opts}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Post("/calculate", s.handleCalculate)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// ListenAndServe serves Routes on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Profit Calculation from CSV</title></head>
<body>
<h1>Profit Calculation from CSV</h1>
<p>Upload your CSV file to calculate the profit</p>
<form method="post" action="/calculate" enctype="multipart/form-data">
<input type="file" name="file" accept="{{.Accept}}">
<button type="submit">Calculate</button>
</form>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, struct{ Accept string }{".csv,.xlsx"}); err != nil {
		s.logger(r).Error("rendering index", slog.Any("error", err))
	}
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	log := s.logger(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.badRequest(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", s.opts.MaxUploadBytes))
			return
		}
		s.badRequest(w, r, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}
	defer file.Close()

	format := ledger.FormatFromPath(hdr.Filename)
	rd := s.opts.Registry.Get(format)
	if rd == nil {
		s.badRequest(w, r, http.StatusBadRequest, fmt.Errorf("unsupported ledger format %q", format))
		return
	}

	ds, err := rd.Read(file)
	if err != nil {
		s.badRequest(w, r, http.StatusBadRequest, fmt.Errorf("reading ledger %s: %w", hdr.Filename, err))
		return
	}
	log.Debug("ledger loaded", slog.String("file", hdr.Filename), slog.Int("rows", len(ds.Rows)))

	summary, err := profit.Calculate(ds, s.opts.Rules)
	if err != nil {
		log.Info("calculation failed", slog.String("kind", string(profit.KindOf(err))), slog.String("error", err.Error()))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errorBody{report.NewErrorJSON(err)})
		return
	}

	log.Info("calculation succeeded",
		slog.String("file", hdr.Filename),
		slog.Int("deposits", summary.Deposits),
		slog.Int("withdrawals", summary.Withdrawals))
	render.JSON(w, r, report.NewSummaryJSON(summary))
}

type errorBody struct {
	Error report.ErrorJSON `json:"error"`
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger(r).Warn("rejected upload", slog.Int("status", status), slog.String("error", err.Error()))
	render.Status(r, status)
	render.JSON(w, r, errorBody{report.ErrorJSON{Kind: "request", Message: err.Error()}})
}

func (s *Server) logger(r *http.Request) *slog.Logger {
	return s.opts.Logger.With(slog.String("request_id", middleware.GetReqID(r.Context())))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger(r).Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)))
	})
}
