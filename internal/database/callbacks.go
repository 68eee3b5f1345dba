package database

import (
	"time"

	"gorm.io/gorm"
)

const startTimeKey = "metrics:start_time"

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

// RegisterMetricsCallbacks registers GORM callbacks for metrics collection
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) {
	cb := db.Callback()

	_ = cb.Query().Before("gorm:query").Register("metrics:select_before", startTimer)
	_ = cb.Query().After("gorm:query").Register("metrics:select_after", recordQuery("select", recorder))

	_ = cb.Create().Before("gorm:create").Register("metrics:insert_before", startTimer)
	_ = cb.Create().After("gorm:create").Register("metrics:insert_after", recordQuery("insert", recorder))

	_ = cb.Update().Before("gorm:update").Register("metrics:update_before", startTimer)
	_ = cb.Update().After("gorm:update").Register("metrics:update_after", recordQuery("update", recorder))

	_ = cb.Delete().Before("gorm:delete").Register("metrics:delete_before", startTimer)
	_ = cb.Delete().After("gorm:delete").Register("metrics:delete_after", recordQuery("delete", recorder))
}

func startTimer(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

func recordQuery(operation string, recorder MetricsRecorder) func(*gorm.DB) {
	return func(db *gorm.DB) {
		start, ok := db.InstanceGet(startTimeKey)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		recorder.RecordDBQuery(operation, table, time.Since(start.(time.Time)), db.Error)
	}
}
