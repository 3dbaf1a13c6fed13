package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LeadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "krenke_leads_total",
			Help: "Total de orçamentos recebidos",
		},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "krenke_logins_total",
			Help: "Tentativas de login por resultado",
		},
		[]string{"result"},
	)

	ProductsImportedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "krenke_products_imported_total",
			Help: "Produtos gravados pela importação do catálogo",
		},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "krenke_http_requests_total",
			Help: "Requisições HTTP por rota e status",
		},
		[]string{"route", "code"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "krenke_http_request_duration_seconds",
			Help:    "Latência das requisições HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

var registerOnce sync.Once

func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(LeadsTotal, LoginsTotal, ProductsImportedTotal, RequestsTotal, RequestDuration)
	})
}

// Start expõe /metrics em uma porta própria.
func Start(port string) *http.Server {
	Register(prometheus.DefaultRegisterer)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go srv.ListenAndServe()
	return srv
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Middleware mede as requisições. route agrupa caminhos com parâmetros.
func Middleware(route func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		name := route(r)
		RequestsTotal.WithLabelValues(name, strconv.Itoa(rec.status)).Inc()
		RequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	})
}
