package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes the lending ledger's operational metrics. A nil
// Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	loansIssued     prometheus.Counter
	loansRepaid     prometheus.Counter
	loansDefaulted  prometheus.Counter
	loansLiquidated prometheus.Counter

	collateralDeposited prometheus.Counter
	collateralWithdrawn prometheus.Counter

	aggregateExposure prometheus.Gauge
	treasuryBalance   prometheus.Gauge

	trustScores prometheus.Histogram
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	return &Collector{
		registry: registry,
		loansIssued: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "loans_issued_total",
			Help: "Total number of issued loans",
		}),
		loansRepaid: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "loans_repaid_total",
			Help: "Total number of repaid loans",
		}),
		loansDefaulted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "loans_defaulted_total",
			Help: "Total number of recorded defaults",
		}),
		loansLiquidated: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "loans_liquidated_total",
			Help: "Total number of liquidated loans",
		}),
		collateralDeposited: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "collateral_deposited_units_total",
			Help: "Total collateral deposited, in base units",
		}),
		collateralWithdrawn: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "collateral_withdrawn_units_total",
			Help: "Total collateral withdrawn, in base units",
		}),
		aggregateExposure: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "aggregate_exposure_units",
			Help: "Outstanding principal across active loans, in base units",
		}),
		treasuryBalance: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "treasury_balance_units",
			Help: "Protocol treasury balance from liquidations, in base units",
		}),
		trustScores: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "trust_score_distribution",
			Help:    "Distribution of trust scores after each update",
			Buckets: []float64{0, 200, 400, 600, 800, 1000},
		}),
	}
}

// Handler returns the /metrics HTTP handler.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) LoanIssued() {
	if c != nil {
		c.loansIssued.Inc()
	}
}

func (c *Collector) LoanRepaid() {
	if c != nil {
		c.loansRepaid.Inc()
	}
}

func (c *Collector) LoanDefaulted() {
	if c != nil {
		c.loansDefaulted.Inc()
	}
}

func (c *Collector) LoanLiquidated() {
	if c != nil {
		c.loansLiquidated.Inc()
	}
}

func (c *Collector) CollateralDeposited(amount int64) {
	if c != nil {
		c.collateralDeposited.Add(float64(amount))
	}
}

func (c *Collector) CollateralWithdrawn(amount int64) {
	if c != nil {
		c.collateralWithdrawn.Add(float64(amount))
	}
}

func (c *Collector) AddExposure(delta int64) {
	if c != nil {
		c.aggregateExposure.Add(float64(delta))
	}
}

func (c *Collector) TreasuryCredited(amount int64) {
	if c != nil {
		c.treasuryBalance.Add(float64(amount))
	}
}

func (c *Collector) ObserveTrustScore(score int) {
	if c != nil {
		c.trustScores.Observe(float64(score))
	}
}
