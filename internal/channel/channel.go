// Package channel provides generic channel interfaces for decoupled
// communication between the overlay core, the host surface, and the
// recording workers.
package channel

// Receiver provides read access to a channel.
type Receiver[T any] interface {
	Receive() <-chan T
	Len() int
}

// Sender provides write access to a channel.
type Sender[T any] interface {
	Send(T)

	// TrySend sends without blocking; it reports false when the value
	// was dropped because the channel was full or had no receiver.
	TrySend(T) bool
}

// Channel combines read and write access.
type Channel[T any] interface {
	Receiver[T]
	Sender[T]
	Close()
}
