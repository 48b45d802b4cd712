package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CredentialsMinted      prometheus.Counter
	MintRejected           *prometheus.CounterVec
	CredentialsTransferred prometheus.Counter
	TransferRejected       *prometheus.CounterVec
	FeesCollected          prometheus.Counter
	SettingsChanged        *prometheus.CounterVec
	MintDuration           prometheus.Histogram
}

// New registers the mint metrics with the default Prometheus registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the mint metrics with reg. Tests pass a fresh
// registry so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CredentialsMinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "tourmint_credentials_minted_total",
			Help: "Total number of credentials minted",
		}),
		MintRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tourmint_mint_rejected_total",
			Help: "Mint requests rejected, by error kind",
		}, []string{"kind"}),
		CredentialsTransferred: factory.NewCounter(prometheus.CounterOpts{
			Name: "tourmint_credentials_transferred_total",
			Help: "Total number of ownership transfers",
		}),
		TransferRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tourmint_transfer_rejected_total",
			Help: "Transfer requests rejected, by error kind",
		}, []string{"kind"}),
		FeesCollected: factory.NewCounter(prometheus.CounterOpts{
			Name: "tourmint_mint_fees_collected_total",
			Help: "Sum of mint fees paid to the contract owner",
		}),
		SettingsChanged: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tourmint_settings_changed_total",
			Help: "Admin settings changes, by setting",
		}, []string{"setting"}),
		MintDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tourmint_mint_duration_seconds",
			Help:    "Duration of Mint operations including payment",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementMinted(fee uint64) {
	m.CredentialsMinted.Inc()
	m.FeesCollected.Add(float64(fee))
}

func (m *Metrics) IncrementMintRejected(kind string) {
	m.MintRejected.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementTransferred() {
	m.CredentialsTransferred.Inc()
}

func (m *Metrics) IncrementTransferRejected(kind string) {
	m.TransferRejected.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementSettingsChanged(setting string) {
	m.SettingsChanged.WithLabelValues(setting).Inc()
}

func (m *Metrics) ObserveMint(start time.Time) {
	m.MintDuration.Observe(time.Since(start).Seconds())
}
