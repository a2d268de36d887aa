package game

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metric descriptors for the game.
type Metrics struct {
	game      *Game
	startTime time.Time

	playersOnline   prometheus.Gauge
	townsGenerated  prometheus.Gauge
	dialoguesActive prometheus.Gauge
	eventsScheduled prometheus.Gauge
	linesTotal      *prometheus.CounterVec
	savesTotal      prometheus.Counter
	uptimeSeconds   prometheus.Gauge
	memoryHeapBytes prometheus.Gauge
	goroutines      prometheus.Gauge
}

// NewMetrics creates and registers Prometheus metrics for the game.
func NewMetrics(game *Game, startTime time.Time) *Metrics {
	m := &Metrics{
		game:      game,
		startTime: startTime,
		playersOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wayfarer_players_online",
			Help: "Number of players currently in the world.",
		}),
		townsGenerated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wayfarer_towns_generated",
			Help: "Number of towns generated so far.",
		}),
		dialoguesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wayfarer_dialogues_active",
			Help: "Number of dialogues currently registered.",
		}),
		eventsScheduled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wayfarer_events_scheduled",
			Help: "Number of timed events waiting in the scheduler.",
		}),
		linesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfarer_lines_total",
			Help: "Player input lines processed, by resolution result.",
		}, []string{"result"}),
		savesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wayfarer_saves_total",
			Help: "Player records written to the store since start.",
		}),
		uptimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wayfarer_uptime_seconds",
			Help: "Server uptime in seconds.",
		}),
		memoryHeapBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wayfarer_memory_heap_bytes",
			Help: "Go heap memory allocated in bytes.",
		}),
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wayfarer_goroutines",
			Help: "Number of active goroutines.",
		}),
	}

	prometheus.MustRegister(
		m.playersOnline,
		m.townsGenerated,
		m.dialoguesActive,
		m.eventsScheduled,
		m.linesTotal,
		m.savesTotal,
		m.uptimeSeconds,
		m.memoryHeapBytes,
		m.goroutines,
	)

	return m
}

// Update refreshes all gauge metrics from current game state.
func (m *Metrics) Update() {
	m.playersOnline.Set(float64(m.game.World.PlayerCount()))
	m.townsGenerated.Set(float64(m.game.World.TownCount()))
	m.dialoguesActive.Set(float64(m.game.Registry.Len()))
	m.eventsScheduled.Set(float64(m.game.Scheduler.Len()))

	m.uptimeSeconds.Set(time.Since(m.startTime).Seconds())

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m.memoryHeapBytes.Set(float64(mem.HeapAlloc))
	m.goroutines.Set(float64(runtime.NumGoroutine()))
}

// Handler returns an http.Handler that updates metrics before serving
// them.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Update()
		promhttp.Handler().ServeHTTP(w, r)
	})
}
