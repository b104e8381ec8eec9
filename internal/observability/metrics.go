package observability

import (
	"errors"
	"sync"

	"github.com/danmuck/cqc/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

var (
	registerOnce sync.Once

	messages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cqc",
			Subsystem: "wire",
			Name:      "messages_total",
			Help:      "CQC messages read or written, by direction and message type.",
		},
		[]string{"direction", "msg_type"},
	)
	messageBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cqc",
			Subsystem: "wire",
			Name:      "message_bytes",
			Help:      "Size of CQC messages in bytes, headers included.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 8),
		},
		[]string{"direction"},
	)
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cqc",
			Subsystem: "wire",
			Name:      "errors_total",
			Help:      "CQC failures by stage (read, write, build, decode, parse) and error kind.",
		},
		[]string{"stage", "kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(messages, messageBytes, errorsTotal)
	})
}

func RecordMessage(direction string, t protocol.MessageType, size int) {
	RegisterMetrics()
	messages.WithLabelValues(direction, t.String()).Inc()
	messageBytes.WithLabelValues(direction).Observe(float64(size))
}

func RecordError(stage string, err error) {
	if err == nil {
		return
	}
	RegisterMetrics()
	errorsTotal.WithLabelValues(stage, ErrorKind(err)).Inc()
}

var kinds = []struct {
	err  error
	name string
}{
	{protocol.ErrTruncated, "truncated"},
	{protocol.ErrUnrecognizedValue, "unrecognized_value"},
	{protocol.ErrLengthMismatch, "length_mismatch"},
	{protocol.ErrInvalidQubitID, "invalid_qubit_id"},
	{protocol.ErrInvalidTarget, "invalid_target"},
	{protocol.ErrMissingParameter, "missing_parameter"},
	{protocol.ErrUnexpectedParameter, "unexpected_parameter"},
	{protocol.ErrWrongPayload, "wrong_payload"},
	{protocol.ErrUnsupportedResponse, "unsupported_response"},
	{protocol.ErrUnsupportedRequest, "unsupported_request"},
}

// ErrorKind maps err to a bounded label value.
func ErrorKind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "other"
}
