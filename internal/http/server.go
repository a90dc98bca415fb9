package http

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"expenses/internal/cache"
	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/middleware/ratelimit"
	"expenses/internal/middleware/security"
	"expenses/internal/middleware/trace"
	appweb "expenses/web"
)

const (
	viewCacheSize     = 64
	viewCacheTTL      = 30 * time.Second
	viewCacheInterval = time.Minute
	staticMaxAge      = 3600
	readyTimeout      = 3 * time.Second
)

// ExpenseService is what the handlers need from services.Tracker.
type ExpenseService interface {
	List(ctx context.Context) ([]core.Expense, error)
	Get(ctx context.Context, id string) (*core.Expense, error)
	Create(ctx context.Context, e core.Expense) (core.Expense, error)
	Update(ctx context.Context, id string, patch core.ExpensePatch) (*core.Expense, error)
	Delete(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
	AddFromText(ctx context.Context, text string) (core.Expense, error)
	CanParse() bool
	Settings(ctx context.Context) (core.Settings, error)
	SaveSettings(ctx context.Context, s core.Settings) (core.Settings, error)
}

// ReadyFunc reports whether the storage backend can serve requests.
type ReadyFunc func(ctx context.Context) error

type Server struct {
	http.Server
	templates *template.Template
	expenses  ExpenseService
	ready     ReadyFunc
	logger    *log.Logger
	now       func() time.Time
	startTime time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	// Filtered list and statistics per query, purged on every write.
	views       *cache.LRU[listResult]
	stopJanitor context.CancelFunc
	janitorDone chan struct{}

	shutdownOnce sync.Once
}

type Option func(*Server)

// WithReadyCheck makes /readyz probe the storage backend.
func WithReadyCheck(fn ReadyFunc) Option {
	return func(s *Server) { s.ready = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l.WithComponent(log.ComponentHTTP) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithRateLimit replaces the default limit of 60 writes per minute per client.
func WithRateLimit(cfg ratelimit.Config) Option {
	return func(s *Server) {
		s.limiter.Stop()
		s.limiter = ratelimit.NewLimiter(cfg)
	}
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server. Call Shutdown to release its goroutines.
func NewServer(addr string, svc ExpenseService, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		expenses:    svc,
		logger:      log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP),
		now:         time.Now,
		startTime:   time.Now(),
		limiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:    security.NewDetector(),
		views:       cache.NewLRU[listResult](viewCacheSize, viewCacheTTL),
		janitorDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracer = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP)

	janitorCtx, cancel := context.WithCancel(context.Background())
	s.stopJanitor = cancel
	go func() {
		defer close(s.janitorDone)
		s.views.Janitor(janitorCtx, viewCacheInterval)
	}()

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Error("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(staticMaxAge)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/ui/expenses", s.handleListPartial)
	mux.HandleFunc("/ui/expense-form", s.handleFormPartial)
	mux.HandleFunc("/expenses", s.handleCreateExpense)
	mux.HandleFunc("/expenses/update", s.handleUpdateExpense)
	mux.HandleFunc("/expenses/delete", s.handleDeleteExpense)
	mux.HandleFunc("/expenses/parse", s.handleParseExpense)
	mux.HandleFunc("/expenses/clear", s.handleClearExpenses)
	mux.HandleFunc("/export.csv", s.handleExportCSV)
	mux.HandleFunc("/settings", s.handleSaveSettings)

	s.Handler = s.middleware(mux)
	return s
}

// middleware wraps the mux, outermost first: tracing with the request
// logger, security headers, probe detection and write rate limiting.
func (s *Server) middleware(next http.Handler) http.Handler {
	onLimit := func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
	}
	h := s.limiter.Middleware(s.detector.ExtractClientIP, onLimit)(next)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	return s.tracer.Middleware(h)
}

// Shutdown stops background goroutines, then drains connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Stopping HTTP background workers", log.FieldOperation, log.OpShutdown)
		s.limiter.Stop()
		s.stopJanitor()
		<-s.janitorDone
	})
	return s.Server.Shutdown(ctx)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", "template", name, log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			"template", name,
			log.FieldOperation, log.OpRender)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
