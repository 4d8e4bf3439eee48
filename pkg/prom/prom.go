// VulcanizeDB
// Copyright © 2023 Vulcanize

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package prom

import (
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	namespace = "xcm_emulator"

	dispatchSubsystem = "dispatch"
	messageSubsystem  = "messages"
	xcmSubsystem      = "xcm"
)

var (
	metrics  bool
	initOnce sync.Once

	dispatchCount     *prometheus.CounterVec
	sentCount         *prometheus.CounterVec
	deliveredCount    *prometheus.CounterVec
	trappedCount      prometheus.Counter
	claimedCount      prometheus.Counter
	queuedMessageSize prometheus.Gauge
)

// Init registers the collectors. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		metrics = true

		dispatchCount = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: dispatchSubsystem,
			Name:      "extrinsic_count",
			Help:      "Number of extrinsics dispatched",
		}, []string{"chain", "call", "result"})

		sentCount = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: messageSubsystem,
			Name:      "sent_count",
			Help:      "Number of messages queued for delivery",
		}, []string{"kind"})

		deliveredCount = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: messageSubsystem,
			Name:      "delivered_count",
			Help:      "Number of messages delivered to their destination",
		}, []string{"kind"})

		trappedCount = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: xcmSubsystem,
			Name:      "trapped_count",
			Help:      "Number of asset sets trapped by failed executions",
		})

		claimedCount = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: xcmSubsystem,
			Name:      "claimed_count",
			Help:      "Number of trapped asset sets claimed",
		})

		queuedMessageSize = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: messageSubsystem,
			Name:      "queued",
			Help:      "Number of messages waiting in the network queues",
		})
	})
}

// Enabled reports whether Init has been called
func Enabled() bool {
	return metrics
}

// Serve exposes the registered metrics over http at addr
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("prometheus server stopped")
		}
	}()
	return srv
}

// IncDispatchCount counts one dispatched extrinsic
func IncDispatchCount(chain, call string, ok bool) {
	if metrics {
		result := "ok"
		if !ok {
			result = "rejected"
		}
		dispatchCount.WithLabelValues(chain, call, result).Inc()
	}
}

// IncSentCount counts one message queued on the transport of kind
func IncSentCount(kind string) {
	if metrics {
		sentCount.WithLabelValues(kind).Inc()
	}
}

// IncDeliveredCount counts one message delivered on the transport of kind
func IncDeliveredCount(kind string) {
	if metrics {
		deliveredCount.WithLabelValues(kind).Inc()
	}
}

// IncTrappedCount counts one trapped asset set
func IncTrappedCount() {
	if metrics {
		trappedCount.Inc()
	}
}

// IncClaimedCount counts one claimed asset set
func IncClaimedCount() {
	if metrics {
		claimedCount.Inc()
	}
}

// SetQueuedMessages records the number of messages in flight
func SetQueuedMessages(n int) {
	if metrics {
		queuedMessageSize.Set(float64(n))
	}
}
