package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// RemoteCount returns the current counter value for op/outcome.
func RemoteCount(op, outcome string) float64 {
	return counterValue(remoteRequests.WithLabelValues(op, outcome))
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
