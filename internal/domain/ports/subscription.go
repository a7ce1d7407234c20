package ports

// Listener receives a fresh snapshot, or the error that prevented loading it.
type Listener[T any] func(value T, err error)

// Subscription is a live watch. Closing it stops delivery; Close is safe to
// call more than once.
type Subscription interface {
	// ID is the unsubscribe token of the watch.
	ID() string

	Close()
}
