package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	betsPlacedCounter      prometheus.Counter
	coupsDealtCounter      prometheus.Counter
	seatsEjectedCounter    prometheus.Counter
	activeTableCountGauge  prometheus.Gauge
	connectedClientsGauge  prometheus.Gauge
}

func (m *metrics) BetPlaced() {
	m.betsPlacedCounter.Inc()
}

func (m *metrics) CoupDealt() {
	m.coupsDealtCounter.Inc()
}

func (m *metrics) SeatEjected() {
	m.seatsEjectedCounter.Inc()
}

func (m *metrics) SetActiveTableCount(count int) {
	m.activeTableCountGauge.Set(float64(count))
}

func (m *metrics) ClientConnected() {
	m.connectedClientsGauge.Inc()
}

func (m *metrics) ClientDisconnected() {
	m.connectedClientsGauge.Dec()
}

var Metrics = &metrics{
	betsPlacedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "bets_placed_total",
		Help: "Total number of wagers accepted into bet ledgers",
	}),
	coupsDealtCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "coups_dealt_total",
		Help: "Total number of coups settled",
	}),
	seatsEjectedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "seats_ejected_total",
		Help: "Total number of seats ejected for missing a stage deadline",
	}),
	activeTableCountGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_tables_count",
		Help: "Count of the entries in the table registry",
	}),
	connectedClientsGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "connected_clients_count",
		Help: "Number of live websocket connections",
	}),
}
