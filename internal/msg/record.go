package msg

// Record represents a consumed Kafka record. Key and Value arrive from the
// broker as opaque bytes; Value is kept as bytes so callers decide how to
// interpret it.
type Record struct {
	Topic     string
	Key       string
	Value     []byte
	Partition int32
	Offset    int64
	Timestamp int64
}
