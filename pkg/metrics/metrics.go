package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type FedhaMetrics struct {
	loansApplied      *prometheus.CounterVec
	loanRejections    *prometheus.CounterVec
	repayments        *prometheus.CounterVec
	accrualRuns       *prometheus.CounterVec
	fixedDepositTotal prometheus.Gauge
	reportsGenerated  *prometheus.CounterVec
}

var (
	fedhaOnce     sync.Once
	fedhaRegistry *FedhaMetrics
)

func Fedha() *FedhaMetrics {
	fedhaOnce.Do(func() {
		fedhaRegistry = &FedhaMetrics{
			loansApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "fedha_loans_applied_total",
				Help: "Count of accepted loan applications by loan type.",
			}, []string{"type"}),
			loanRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "fedha_loan_rejections_total",
				Help: "Count of rejected loan applications by reason.",
			}, []string{"reason"}),
			repayments: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "fedha_repayments_total",
				Help: "Count of recorded repayments by resulting loan status.",
			}, []string{"status"}),
			accrualRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "fedha_accrual_runs_total",
				Help: "Count of fixed deposit accrual runs by outcome.",
			}, []string{"outcome"}),
			fixedDepositTotal: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "fedha_fixed_deposit_savings",
				Help: "Total savings in the latest fixed deposit snapshot.",
			}),
			reportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "fedha_reports_generated_total",
				Help: "Count of generated reports by kind.",
			}, []string{"kind"}),
		}
		prometheus.MustRegister(
			fedhaRegistry.loansApplied,
			fedhaRegistry.loanRejections,
			fedhaRegistry.repayments,
			fedhaRegistry.accrualRuns,
			fedhaRegistry.fixedDepositTotal,
			fedhaRegistry.reportsGenerated,
		)
	})
	return fedhaRegistry
}

func labelOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func (m *FedhaMetrics) ObserveLoanApplied(loanType string) {
	if m == nil {
		return
	}
	m.loansApplied.WithLabelValues(labelOrUnknown(loanType)).Inc()
}

func (m *FedhaMetrics) ObserveLoanRejected(reason string) {
	if m == nil {
		return
	}
	m.loanRejections.WithLabelValues(labelOrUnknown(reason)).Inc()
}

func (m *FedhaMetrics) ObserveRepayment(status string) {
	if m == nil {
		return
	}
	m.repayments.WithLabelValues(labelOrUnknown(status)).Inc()
}

func (m *FedhaMetrics) ObserveAccrual(outcome string, totalSavings float64) {
	if m == nil {
		return
	}
	m.accrualRuns.WithLabelValues(labelOrUnknown(outcome)).Inc()
	if outcome == "ok" {
		m.fixedDepositTotal.Set(totalSavings)
	}
}

func (m *FedhaMetrics) ObserveReport(kind string) {
	if m == nil {
		return
	}
	m.reportsGenerated.WithLabelValues(labelOrUnknown(kind)).Inc()
}
