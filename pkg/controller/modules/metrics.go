package modules

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	temperatureGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "multimatic_temperature_celsius",
		Help: "Current temperature of a circuit.",
	}, []string{"kind", "id"})
	targetGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "multimatic_target_temperature_celsius",
		Help: "Temperature a circuit currently heads for.",
	}, []string{"kind", "id"})
	reportGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "multimatic_report_value",
		Help: "Live report value of a sensor.",
	}, []string{"device", "report", "unit"})
	energyGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "multimatic_energy_report_value",
		Help: "Energy report of a device for the current period.",
	}, []string{"device", "function", "energy_type"})
	errorsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "multimatic_errors",
		Help: "Number of faults reported by the system.",
	})
	onlineGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "multimatic_gateway_online",
		Help: "1 when the gateway is online.",
	})
)

// setGauge sets the gauge, or removes the series when the value is unknown.
func setGauge(gauge *prometheus.GaugeVec, value *float64, labels ...string) {
	if value == nil {
		gauge.DeleteLabelValues(labels...)
		return
	}
	gauge.WithLabelValues(labels...).Set(*value)
}
