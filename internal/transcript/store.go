package transcript

import (
	"sync"
)

// Fold is a pure update of the transcript
type Fold func(Transcript) Transcript

// Observer is notified with every committed transcript, on the store goroutine.
type Observer func(Transcript)

type storeRequest struct {
	fold  Fold
	reply chan Transcript
}

// Store owns one Transcript and applies folds one at a time on its own goroutine.
// Writers never share the transcript: they send a Fold and receive the committed value.
type Store struct {
	requests chan storeRequest
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once

	observers []Observer
	current   Transcript // owned by loop
	final     Transcript // valid after done is closed
}

// Option configures a Store
type Option func(*Store)

// WithObserver registers an observer called after every fold
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observers = append(s.observers, o)
	}
}

// WithInitial seeds the store
func WithInitial(t Transcript) Option {
	return func(s *Store) {
		s.current = t
	}
}

// NewStore starts a store goroutine. Call Close to stop it.
func NewStore(opts ...Option) *Store {
	s := &Store{
		requests: make(chan storeRequest),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.loop()
	return s
}

func (s *Store) loop() {
	defer close(s.done)
	for {
		select {
		case req := <-s.requests:
			if req.fold != nil {
				s.current = req.fold(s.current)
				for _, o := range s.observers {
					o(s.current)
				}
			}
			req.reply <- s.current
		case <-s.quit:
			s.final = s.current
			return
		}
	}
}

// Apply commits fold and returns the resulting transcript. After Close it is a no-op
// returning the last committed value.
func (s *Store) Apply(fold Fold) Transcript {
	reply := make(chan Transcript, 1)
	select {
	case s.requests <- storeRequest{fold: fold, reply: reply}:
		return <-reply
	case <-s.done:
		return s.final
	}
}

// Snapshot returns the current transcript
func (s *Store) Snapshot() Transcript {
	return s.Apply(nil)
}

// Reset clears the transcript
func (s *Store) Reset() Transcript {
	return s.Apply(func(Transcript) Transcript { return Transcript{} })
}

// Close stops the store goroutine
func (s *Store) Close() {
	s.once.Do(func() {
		close(s.quit)
	})
	<-s.done
}
