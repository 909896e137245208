package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesProduced counts messages successfully handed to the broker.
	MessagesProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_messages_produced_total",
		Help: "Messages successfully produced, by topic.",
	}, []string{"topic"})

	// ProduceErrors counts failed produce attempts.
	ProduceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_produce_errors_total",
		Help: "Failed produce attempts, by topic.",
	}, []string{"topic"})

	// RecordsConsumed counts records delivered to the stream handler.
	RecordsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_records_consumed_total",
		Help: "Records consumed from the broker, by topic.",
	}, []string{"topic"})

	// RowsWritten counts rows written to the warehouse.
	RowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_warehouse_rows_written_total",
		Help: "Rows written to the warehouse, by table.",
	}, []string{"table"})

	// RowsRead counts rows read from the warehouse.
	RowsRead = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_warehouse_rows_read_total",
		Help: "Rows read from the warehouse, by table.",
	}, []string{"table"})
)
