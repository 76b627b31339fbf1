package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/unrolled/secure"
)

// RouterOptions tune the net/http stack.
type RouterOptions struct {
	BasePath string
	// MutationLimit caps write requests per client IP within MutationWindow.
	// Zero disables rate limiting.
	MutationLimit  int
	MutationWindow time.Duration
	Development    bool
	Logger         *zerolog.Logger
}

// NewRouter mounts the dashboard API on a chi router.
//
//	GET    {base}/dashboard                  HTML page
//	GET    {base}/dashboard/_layout          template payload
//	GET    {base}/dashboard/theme.css        preset stylesheet
//	GET    {base}/dashboard/deals            deals table page
//	GET    {base}/dashboard/navigation       sidebar
//	GET    {base}/dashboard/theme            active preset
//	POST   {base}/dashboard/theme            switch preset
//	GET    {base}/dashboard/theme/events     preset changes (SSE)
//	GET    {base}/dashboard/theme/ws         preset changes (WebSocket)
//	POST   {base}/dashboard/widgets          assign widget
//	POST   {base}/dashboard/widgets/reorder  reorder area
//	PATCH  {base}/dashboard/widgets/{id}     update configuration
//	DELETE {base}/dashboard/widgets/{id}     remove widget
//	POST   {base}/dashboard/charts/purge     purge chart cache
func NewRouter(h *Handlers, opts RouterOptions) http.Handler {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	headers := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline' https://go-echarts.github.io; " +
			"style-src 'self' 'unsafe-inline'; connect-src 'self' ws: wss:",
		IsDevelopment: opts.Development,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(logger), middleware.Recoverer, headers.Handler)

	base := "/" + strings.Trim(opts.BasePath, "/")
	if base == "/" {
		base = ""
	}
	r.Route(base+"/dashboard", func(r chi.Router) {
		r.Get("/", h.HandlePage)
		r.Get("/_layout", h.HandleLayoutPayload)
		r.Get("/theme.css", h.HandleStylesheet)
		r.Get("/deals", h.HandleDeals)
		r.Get("/navigation", h.HandleNavigation)
		r.Get("/theme", h.HandleGetTheme)
		r.Get("/theme/events", h.HandleThemeEvents)
		r.Get("/theme/ws", h.HandleThemeSocket)

		r.Group(func(r chi.Router) {
			if opts.MutationLimit > 0 {
				window := opts.MutationWindow
				if window <= 0 {
					window = time.Minute
				}
				r.Use(httprate.Limit(opts.MutationLimit, window,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
						writeJSON(w, http.StatusTooManyRequests, ErrorBody{Error: http.StatusText(http.StatusTooManyRequests)})
					}),
				))
			}
			r.Post("/theme", h.HandleSetTheme)
			r.Post("/widgets", h.HandleAssignWidget)
			r.Post("/widgets/reorder", h.HandleReorderWidgets)
			r.Patch("/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
				h.HandleUpdateWidget(w, r, chi.URLParam(r, "id"))
			})
			r.Delete("/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
				h.HandleRemoveWidget(w, r, chi.URLParam(r, "id"))
			})
			r.Post("/charts/purge", h.HandlePurgeCharts)
		})
	})
	return r
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := logger.Info()
			if status >= http.StatusInternalServerError {
				event = logger.Error()
			}
			event.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("elapsed", time.Since(start)).
				Msg("http request")
		})
	}
}
