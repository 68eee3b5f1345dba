package metrics

// Realtime event directions
const (
	DirectionOutbound = "outbound"
	DirectionInbound  = "inbound"
)

// RecordRealtimeEvent counts a realtime event in the given direction
func (m *Metrics) RecordRealtimeEvent(direction, event string) {
	m.safeExecute("RecordRealtimeEvent", func() {
		m.RealtimeEventsTotal.WithLabelValues(direction, event).Inc()
	})
}

// RecordRealtimeError counts a realtime event that could not be sent or applied
func (m *Metrics) RecordRealtimeError(event, reason string) {
	m.safeExecute("RecordRealtimeError", func() {
		m.RealtimeErrorsTotal.WithLabelValues(event, reason).Inc()
	})
}

// SetSocketConnected sets the socket connection gauge
func (m *Metrics) SetSocketConnected(connected bool) {
	m.safeExecute("SetSocketConnected", func() {
		if connected {
			m.SocketConnected.Set(1)
			return
		}
		m.SocketConnected.Set(0)
	})
}

// IncrementSocketReconnects increments the socket reconnect counter
func (m *Metrics) IncrementSocketReconnects() {
	m.safeExecute("IncrementSocketReconnects", func() {
		m.SocketReconnectsTotal.Inc()
	})
}

// IncrementStaleFetchDiscarded increments the discarded fetch counter
func (m *Metrics) IncrementStaleFetchDiscarded() {
	m.safeExecute("IncrementStaleFetchDiscarded", func() {
		m.StaleFetchesDiscarded.Inc()
	})
}

// IncrementOptimisticUpdate counts a local optimistic update by operation
func (m *Metrics) IncrementOptimisticUpdate(operation string) {
	m.safeExecute("IncrementOptimisticUpdate", func() {
		m.OptimisticUpdatesTotal.WithLabelValues(operation).Inc()
	})
}

// SetActiveBoardSize sets the active board gauges
func (m *Metrics) SetActiveBoardSize(columns, cards int) {
	m.safeExecute("SetActiveBoardSize", func() {
		m.ActiveBoardColumns.Set(float64(columns))
		m.ActiveBoardCards.Set(float64(cards))
	})
}
