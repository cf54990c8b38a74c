package metrics

// Metric names reported by Operations.
const (
	OperationsTotal     = "indexeddb_operations_total"
	FailuresTotal       = "indexeddb_failures_total"
	PendingTransactions = "indexeddb_pending_transactions"
	BulkRecords         = "indexeddb_bulk_records"
)

// Operations instruments IndexedDB calls. A nil *Operations is valid and
// records nothing, so components can take it as an optional dependency.
type Operations struct {
	operations *Counter
	failures   *Counter
	pending    *Gauge
	bulk       *Histogram
}

// NewOperations registers the IndexedDB metric handles on c.
func NewOperations(c Client) (*Operations, error) {
	operations, err := c.NewCounter(OperationsTotal)
	if err != nil {
		return nil, err
	}
	failures, err := c.NewCounter(FailuresTotal)
	if err != nil {
		return nil, err
	}
	pending, err := c.NewGauge(PendingTransactions)
	if err != nil {
		return nil, err
	}
	bulk, err := c.NewHistogram(BulkRecords)
	if err != nil {
		return nil, err
	}

	return &Operations{operations: operations, failures: failures, pending: pending, bulk: bulk}, nil
}

// Completed counts a finished operation and, when failed, a failure.
func (o *Operations) Completed(failed bool) {
	if o == nil {
		return
	}
	o.operations.Inc()
	if failed {
		o.failures.Inc()
	}
}

// BatchSize records the number of records sent in a bulk add.
func (o *Operations) BatchSize(n int) {
	if o == nil {
		return
	}
	o.bulk.Observe(float64(n))
}

// Deferred marks a transaction whose completion the host will deliver later.
func (o *Operations) Deferred() {
	if o == nil {
		return
	}
	o.pending.Inc()
}

// Resolved marks a deferred transaction as completed.
func (o *Operations) Resolved() {
	if o == nil {
		return
	}
	o.pending.Dec()
}
