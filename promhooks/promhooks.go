// Package promhooks counts silkcache events with Prometheus.
//
//	reg := prometheus.NewRegistry()
//	m, _ := silkcache.New[*Post](silkcache.Options[*Post]{
//	    Name:  "feed",
//	    Hooks: promhooks.New(reg),
//	})
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/unkn0wn-root/silkcache"
)

type Hooks struct {
	loads          *prometheus.CounterVec
	loadErrors     *prometheus.CounterVec
	commits        *prometheus.CounterVec
	committedItems *prometheus.CounterVec
	ignoredItems   *prometheus.CounterVec
	deletes        *prometheus.CounterVec
	commitErrors   *prometheus.CounterVec
	asyncErrors    *prometheus.CounterVec
	genErrors      *prometheus.CounterVec
}

var _ silkcache.Hooks = (*Hooks)(nil)

// New registers the silkcache counters on reg. A nil reg uses the default
// registerer; registering twice on the same registry panics.
func New(reg prometheus.Registerer) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	byCache := []string{"cache"}
	return &Hooks{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "silkcache_loads_total",
			Help: "Total number of cache files loaded into a buffer.",
		}, byCache),
		loadErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "silkcache_load_errors_total",
			Help: "Total number of failed cache loads.",
		}, byCache),
		commits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "silkcache_commits_total",
			Help: "Total number of commits that wrote a cache file.",
		}, byCache),
		committedItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "silkcache_committed_items_total",
			Help: "Total number of items written by commits.",
		}, byCache),
		ignoredItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "silkcache_ignored_items_total",
			Help: "Total number of ignored items dropped by commits.",
		}, byCache),
		deletes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "silkcache_deletes_total",
			Help: "Total number of commits that deleted the cache file.",
		}, byCache),
		commitErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "silkcache_commit_errors_total",
			Help: "Total number of failed commits.",
		}, byCache),
		asyncErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "silkcache_async_errors_total",
			Help: "Total number of failed async operations.",
		}, []string{"cache", "op" /* read | find | commit */}),
		genErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "silkcache_gen_errors_total",
			Help: "Total number of generation store errors.",
		}, byCache),
	}
}

func (h *Hooks) Loaded(key string, _ int)       { h.loads.WithLabelValues(key).Inc() }
func (h *Hooks) LoadFailed(key string, _ error) { h.loadErrors.WithLabelValues(key).Inc() }

func (h *Hooks) Committed(key string, written, ignored int) {
	h.commits.WithLabelValues(key).Inc()
	h.committedItems.WithLabelValues(key).Add(float64(written))
	h.ignoredItems.WithLabelValues(key).Add(float64(ignored))
}

func (h *Hooks) Deleted(key string)               { h.deletes.WithLabelValues(key).Inc() }
func (h *Hooks) CommitFailed(key string, _ error) { h.commitErrors.WithLabelValues(key).Inc() }
func (h *Hooks) GenError(key string, _ error)     { h.genErrors.WithLabelValues(key).Inc() }

func (h *Hooks) AsyncError(key, op string, _ error) {
	h.asyncErrors.WithLabelValues(key, op).Inc()
}
