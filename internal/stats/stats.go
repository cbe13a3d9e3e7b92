package stats

import (
	"encoding/json"
	"expvar"
	"net/http"
	"sync"
	"time"
)

const (
	ActiveConnections = "ActiveConnections"
	ActiveRooms       = "ActiveRooms"
	ChatMessages      = "ChatMessages"
	SignalsRelayed    = "SignalsRelayed"
	SignalsDropped    = "SignalsDropped"
	InvalidMessages   = "InvalidMessages"
)

type StatsProvider interface {
	Incr(name string)
	Decr(name string)
}

type StatsUpdater struct {
	vars       *expvar.Map
	updateChan chan *metricsUpdateReq
	done       chan struct{}
	stopOnce   sync.Once
}

type metricsUpdateReq struct {
	name  string
	value int
}

// NewStatsUpdater creates a stats updater with every relay metric registered.
// The map is not published globally so several instances can coexist.
func NewStatsUpdater() *StatsUpdater {
	su := &StatsUpdater{
		vars:       new(expvar.Map).Init(),
		updateChan: make(chan *metricsUpdateReq, 512),
		done:       make(chan struct{}),
	}
	su.initializeMetrics()
	return su
}

func (su *StatsUpdater) initializeMetrics() {
	startTime := time.Now()
	su.vars.Set("Uptime", expvar.Func(func() any {
		return time.Since(startTime).Milliseconds()
	}))
	for _, name := range []string{ActiveConnections, ActiveRooms, ChatMessages, SignalsRelayed, SignalsDropped, InvalidMessages} {
		su.RegisterMetric(name)
	}
}

// Handler serves the metrics as a flat JSON object.
func (su *StatsUpdater) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	expvarData := make(map[string]any)
	su.vars.Do(func(kv expvar.KeyValue) {
		var value any
		_ = json.Unmarshal([]byte(kv.Value.String()), &value)
		expvarData[kv.Key] = value
	})

	_ = json.NewEncoder(w).Encode(expvarData)
}

func (su *StatsUpdater) updateMetrics() {
	for {
		select {
		case <-su.done:
			return
		case req := <-su.updateChan:
			metric, ok := su.vars.Get(req.name).(*expvar.Int)
			if !ok {
				continue
			}
			metric.Add(int64(req.value))
		}
	}
}

// Incr never blocks the caller; updates are dropped if the queue is full.
func (su *StatsUpdater) Incr(name string) {
	su.push(&metricsUpdateReq{name: name, value: 1})
}

func (su *StatsUpdater) Decr(name string) {
	su.push(&metricsUpdateReq{name: name, value: -1})
}

func (su *StatsUpdater) push(req *metricsUpdateReq) {
	select {
	case su.updateChan <- req:
	default:
	}
}

func (su *StatsUpdater) RegisterMetric(name string) {
	su.vars.Set(name, new(expvar.Int))
}

// Value reads a counter; 0 for unknown names.
func (su *StatsUpdater) Value(name string) int64 {
	if v, ok := su.vars.Get(name).(*expvar.Int); ok {
		return v.Value()
	}
	return 0
}

func (su *StatsUpdater) Run() {
	go su.updateMetrics()
}

// Stop ends the update loop. Later updates are queued and never applied.
func (su *StatsUpdater) Stop() {
	su.stopOnce.Do(func() { close(su.done) })
}

// Nop discards every update.
type Nop struct{}

func (Nop) Incr(string) {}
func (Nop) Decr(string) {}
