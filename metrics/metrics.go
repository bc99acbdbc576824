package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records sundial module activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	operations    *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	yieldPaid     *prometheus.CounterVec
	liquidations  prometheus.Counter
	matured       prometheus.Counter
	openSundials  prometheus.Gauge
	collateralPx  *prometheus.GaugeVec
	profileHealth *prometheus.GaugeVec
}

// NewMetrics creates the module collectors and registers them with reg.
// When reg is nil the collectors are created but not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sundial_operations_total",
			Help: "Count of successfully executed sundial operations by name.",
		}, []string{"op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sundial_rejections_total",
			Help: "Count of rejected sundial operations by name and reason.",
		}, []string{"op", "reason"}),
		yieldPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sundial_yield_paid_total",
			Help: "Liquidity paid to yield token holders by denom.",
		}, []string{"denom"}),
		liquidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sundial_liquidations_total",
			Help: "Count of executed liquidations.",
		}),
		matured: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sundial_matured_total",
			Help: "Count of sundials that reached maturity.",
		}),
		openSundials: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sundial_open_sundials",
			Help: "Number of sundials that have not yet matured.",
		}),
		collateralPx: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sundial_collateral_price",
			Help: "Last refreshed price of a collateral in the common unit.",
		}, []string{"collateral"}),
		profileHealth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sundial_profile_loan_to_capacity",
			Help: "Loan value over borrow capacity at the last profile refresh.",
		}, []string{"market"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.operations,
			m.rejections,
			m.yieldPaid,
			m.liquidations,
			m.matured,
			m.openSundials,
			m.collateralPx,
			m.profileHealth,
		)
	}
	return m
}

// ObserveOperation counts a committed operation.
func (m *Metrics) ObserveOperation(op string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op).Inc()
}

// ObserveRejection counts a failed operation. reason is usually the registered error's codespace message.
func (m *Metrics) ObserveRejection(op, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.rejections.WithLabelValues(op, reason).Inc()
}

func (m *Metrics) AddYieldPaid(denom string, amount float64) {
	if m == nil {
		return
	}
	m.yieldPaid.WithLabelValues(denom).Add(amount)
}

func (m *Metrics) IncLiquidations() {
	if m == nil {
		return
	}
	m.liquidations.Inc()
}

// ObserveMatured counts a matured sundial and removes it from the open gauge.
func (m *Metrics) ObserveMatured() {
	if m == nil {
		return
	}
	m.matured.Inc()
	m.openSundials.Dec()
}

func (m *Metrics) IncOpenSundials() {
	if m == nil {
		return
	}
	m.openSundials.Inc()
}

func (m *Metrics) SetCollateralPrice(collateralID string, price float64) {
	if m == nil {
		return
	}
	m.collateralPx.WithLabelValues(collateralID).Set(price)
}

func (m *Metrics) SetProfileUtilization(marketID string, ratio float64) {
	if m == nil {
		return
	}
	m.profileHealth.WithLabelValues(marketID).Set(ratio)
}
