package core

// Frame is one encoded outbound message.
type Frame []byte

type SessionID string

// SignalConnection abstracts a client messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats to the orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []SessionID
}
