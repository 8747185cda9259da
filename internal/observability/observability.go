package observability

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const namespace = "wallets"

// Observability owns the process logger and the metrics registry
type Observability struct {
	log      *zap.Logger
	metrics  *prometheus.Registry
	counters map[string]prometheus.Counter
}

// Make creates an Observability with a fresh registry
func Make(log *zap.Logger) *Observability {
	if log == nil {
		log = zap.NewNop()
	}
	return &Observability{
		log:      log,
		metrics:  prometheus.NewRegistry(),
		counters: make(map[string]prometheus.Counter),
	}
}

func (o *Observability) Log() *zap.Logger {
	return o.log
}

func (o *Observability) Metrics() *prometheus.Registry {
	return o.metrics
}

// Counter returns the registered counter with the fully qualified name of opts, registering it on first use
func (o *Observability) Counter(opts prometheus.CounterOpts) prometheus.Counter {
	name := prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
	c, ok := o.counters[name]
	if ok {
		return c
	}
	c = prometheus.NewCounter(opts)
	if err := o.metrics.Register(c); err != nil {
		o.log.Error("failed to register metric", zap.String("metric_collector", name), zap.Error(err))
		return c
	}
	o.counters[name] = c
	return c
}

// TransferMetrics counts lifecycle outcomes of the orchestrator
type TransferMetrics struct {
	Created   prometheus.Counter
	Done      prometheus.Counter
	Canceled  prometheus.Counter
	Conflicts prometheus.Counter
	Failed    prometheus.Counter
}

// ReconcilerMetrics counts the repairs made by the reconciler
type ReconcilerMetrics struct {
	Resumed        prometheus.Counter
	MarkersCleared prometheus.Counter
}

// MakeTransferMetrics registers wallets_transfers_<field>_total counters
func MakeTransferMetrics(obs *Observability) *TransferMetrics {
	m := &TransferMetrics{}
	fillCounters(obs, m, "transfers", "Number of transfers %s.")
	return m
}

// MakeReconcilerMetrics registers wallets_reconciler_<field>_total counters
func MakeReconcilerMetrics(obs *Observability) *ReconcilerMetrics {
	m := &ReconcilerMetrics{}
	fillCounters(obs, m, "reconciler", "Number of reconciler repairs: %s.")
	return m
}

// NopTransferMetrics returns counters bound to a throwaway registry
func NopTransferMetrics() *TransferMetrics {
	return MakeTransferMetrics(Make(nil))
}

// NopReconcilerMetrics returns counters bound to a throwaway registry
func NopReconcilerMetrics() *ReconcilerMetrics {
	return MakeReconcilerMetrics(Make(nil))
}

func fillCounters(obs *Observability, target interface{}, subsystem, helpFormat string) {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := toSnake(t.Field(i).Name)
		opts := prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      field + "_total",
			Help:      fmt.Sprintf(helpFormat, strings.ReplaceAll(field, "_", " ")),
		}
		collector := obs.Counter(opts)
		v.Field(i).Set(reflect.ValueOf(collector))
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
