package prom

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterGaugeFunc registers a gauge whose value is read from f at scrape time. A gauge already
// registered under the same name and labels is replaced.
func RegisterGaugeFunc(name string, labels prometheus.Labels, f func() float64) prometheus.GaugeFunc {
	if !metrics {
		return nil
	}
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "chains",
			Name:        name,
			Help:        "Chain state gauge",
			ConstLabels: labels,
		}, f)
	err := prometheus.Register(gauge)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		prometheus.Unregister(already.ExistingCollector)
		err = prometheus.Register(gauge)
	}
	if err != nil {
		panic(err)
	}
	return gauge
}

// ChainGauges are the gauges exported for one chain of one network.
type ChainGauges struct {
	BlockNumber prometheus.GaugeFunc
	Entries     prometheus.GaugeFunc
}

// TrackChain exposes the block number and state size of a chain, labelled with the network it
// belongs to. The readers are called at scrape time so they must be safe to call concurrently
// with the network.
func TrackChain(network, chain string, blockNumber, entries func() float64) ChainGauges {
	labels := prometheus.Labels{"network": network, "chain": chain}
	return ChainGauges{
		BlockNumber: RegisterGaugeFunc("block_number", labels, blockNumber),
		Entries:     RegisterGaugeFunc("state_entries", labels, entries),
	}
}

// UntrackChain removes the gauges of a chain.
func UntrackChain(g ChainGauges) {
	if g.BlockNumber != nil {
		prometheus.Unregister(g.BlockNumber)
	}
	if g.Entries != nil {
		prometheus.Unregister(g.Entries)
	}
}
