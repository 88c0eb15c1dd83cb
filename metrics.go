package wcdb

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsDatabase holds Prometheus metrics for every database of the process.
type metricsDatabase struct {
	once sync.Once

	// Statements
	statements        *prometheus.CounterVec
	statementDuration prometheus.Histogram
	rowsAffected      prometheus.Counter
	rowsScanned       prometheus.Counter

	// Errors
	errors *prometheus.CounterVec

	// Transactions
	commits   prometheus.Counter
	rollbacks prometheus.Counter

	// Backup
	backupDuration   prometheus.Histogram
	retrieveDuration prometheus.Histogram
}

var dbMetrics metricsDatabase

func (m *metricsDatabase) init() {
	m.once.Do(func() {
		m.statements = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "wcdb_statements_total", Help: "Statements stepped to completion"}, []string{"kind"})
		m.rowsAffected = prometheus.NewCounter(prometheus.CounterOpts{Name: "wcdb_rows_affected_total", Help: "Rows changed by write statements"})
		m.rowsScanned = prometheus.NewCounter(prometheus.CounterOpts{Name: "wcdb_rows_scanned_total", Help: "Rows read by queries"})

		m.errors = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "wcdb_errors_total", Help: "Errors returned by the engine"}, []string{"kind"})

		m.commits = prometheus.NewCounter(prometheus.CounterOpts{Name: "wcdb_transactions_committed_total", Help: "Committed transactions"})
		m.rollbacks = prometheus.NewCounter(prometheus.CounterOpts{Name: "wcdb_transactions_rolled_back_total", Help: "Rolled back transactions"})

		buckets := []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
		m.statementDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "wcdb_statement_seconds", Help: "Duration of statement execution", Buckets: buckets})
		slow := []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60}
		m.backupDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "wcdb_backup_seconds", Help: "Duration of backups", Buckets: slow})
		m.retrieveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "wcdb_retrieve_seconds", Help: "Duration of retrieves", Buckets: slow})

		prometheus.MustRegister(
			m.statements, m.statementDuration, m.rowsAffected, m.rowsScanned,
			m.errors,
			m.commits, m.rollbacks,
			m.backupDuration, m.retrieveDuration,
		)
	})
}

// record helpers
func recordStatement(kind string, info PerformanceInfo) {
	dbMetrics.init()
	dbMetrics.statements.WithLabelValues(kind).Inc()
	dbMetrics.statementDuration.Observe(info.Elapsed.Seconds())
	dbMetrics.rowsAffected.Add(float64(info.RowsAffected))
	dbMetrics.rowsScanned.Add(float64(info.RowsScanned))
}

func recordError(kind Kind) { dbMetrics.init(); dbMetrics.errors.WithLabelValues(kind.String()).Inc() }

func recordCommit() { dbMetrics.init(); dbMetrics.commits.Inc() }

func recordRollback() { dbMetrics.init(); dbMetrics.rollbacks.Inc() }

func recordBackup(elapsed time.Duration) {
	dbMetrics.init()
	dbMetrics.backupDuration.Observe(elapsed.Seconds())
}

func recordRetrieve(elapsed time.Duration) {
	dbMetrics.init()
	dbMetrics.retrieveDuration.Observe(elapsed.Seconds())
}
