package domain

// ResultStatus tags a Result envelope. Exactly one tag is active per envelope.
type ResultStatus string

const (
	StatusLoading ResultStatus = "loading"
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

// Result is the envelope streamed by sync operations. A sequence always
// starts with a Loading envelope and terminates in exactly one Success or
// Error. Error envelopes carry the last-known-good cached payload so a
// consumer never loses data to a remote failure.
type Result[T any] struct {
	Status  ResultStatus `json:"status"`
	Data    T            `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
}

// NewLoading returns a Loading envelope carrying the best-known data so far.
func NewLoading[T any](data T) Result[T] {
	return Result[T]{Status: StatusLoading, Data: data}
}

// NewSuccess returns a Success envelope. Success never carries a message.
func NewSuccess[T any](data T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: data}
}

// NewError returns an Error envelope with a human-readable cause and the
// last-known-good payload.
func NewError[T any](message string, data T) Result[T] {
	return Result[T]{Status: StatusError, Data: data, Message: message}
}
