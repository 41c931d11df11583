package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrNoHandler indicates a call was made on a channel nobody serves.
	ErrNoHandler = errors.New("no handler for channel")
	// ErrBusClosed indicates the dispatch loop has stopped.
	ErrBusClosed = errors.New("message bus closed")
)

// NotificationHandler handles a one-way message.
type NotificationHandler func(payload json.RawMessage)

// CallHandler handles a request and produces a result to be JSON encoded.
type CallHandler func(ctx context.Context, payload json.RawMessage) (any, error)

type reply struct {
	result json.RawMessage
	err    error
}

// Bus is a single-goroutine dispatch loop. Every handler and posted task runs
// on the loop, one at a time, in the order it was queued.
type Bus struct {
	mu            sync.RWMutex
	notifications map[Channel]NotificationHandler
	calls         map[Channel]CallHandler
	queue         chan func()
	done          chan struct{}
	closeOnce     sync.Once
	logger        zerolog.Logger
}

// NewBus creates a bus with the given queue capacity.
func NewBus(capacity int, logger zerolog.Logger) *Bus {
	if capacity <= 0 {
		capacity = 64
	}
	return &Bus{
		notifications: make(map[Channel]NotificationHandler),
		calls:         make(map[Channel]CallHandler),
		queue:         make(chan func(), capacity),
		done:          make(chan struct{}),
		logger:        logger.With().Str("component", "bus").Logger(),
	}
}

// On registers the handler for a notification channel.
func (bus *Bus) On(channel Channel, handler NotificationHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.notifications[channel] = handler
}

// Handle registers the handler for a call channel.
func (bus *Bus) Handle(channel Channel, handler CallHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.calls[channel] = handler
}

// Send queues a one-way notification. No reply is produced.
func (bus *Bus) Send(ctx context.Context, channel Channel, payload any) error {
	raw, err := encode(payload)
	if err != nil {
		return fmt.Errorf("send %s: %w", channel, err)
	}
	return bus.enqueue(ctx, func() {
		bus.mu.RLock()
		handler, ok := bus.notifications[channel]
		bus.mu.RUnlock()
		if !ok {
			bus.logger.Warn().Str("channel", string(channel)).Msg("dropping notification without handler")
			return
		}
		handler(raw)
	})
}

// Invoke queues a call and waits for its result.
func (bus *Bus) Invoke(ctx context.Context, channel Channel, payload any) (json.RawMessage, error) {
	raw, err := encode(payload)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", channel, err)
	}

	replies := make(chan reply, 1)
	err = bus.enqueue(ctx, func() {
		bus.mu.RLock()
		handler, ok := bus.calls[channel]
		bus.mu.RUnlock()
		if !ok {
			replies <- reply{err: fmt.Errorf("%w: %s", ErrNoHandler, channel)}
			return
		}
		defer func() {
			if recovered := recover(); recovered != nil {
				replies <- reply{err: fmt.Errorf("%s handler panicked: %v", channel, recovered)}
			}
		}()
		result, err := handler(ctx, raw)
		if err != nil {
			replies <- reply{err: err}
			return
		}
		encoded, err := json.Marshal(result)
		if err != nil {
			replies <- reply{err: fmt.Errorf("encode %s result: %w", channel, err)}
			return
		}
		replies <- reply{result: encoded}
	})
	if err != nil {
		return nil, err
	}

	select {
	case response := <-replies:
		return response.result, response.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-bus.done:
		return nil, ErrBusClosed
	}
}

// Post queues an internal task on the loop.
func (bus *Bus) Post(task func()) {
	if err := bus.enqueue(context.Background(), task); err != nil {
		bus.logger.Debug().Err(err).Msg("dropping posted task")
	}
}

// Run processes queued messages until ctx is cancelled or Close is called.
func (bus *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			bus.Close()
			return
		case <-bus.done:
			return
		case task := <-bus.queue:
			bus.runTask(task)
		}
	}
}

// Close stops the loop. Pending messages are discarded.
func (bus *Bus) Close() {
	bus.closeOnce.Do(func() {
		close(bus.done)
	})
}

func (bus *Bus) runTask(task func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			bus.logger.Error().Interface("panic", recovered).Msg("handler panicked")
		}
	}()
	task()
}

func (bus *Bus) enqueue(ctx context.Context, task func()) error {
	select {
	case <-bus.done:
		return ErrBusClosed
	default:
	}

	select {
	case bus.queue <- task:
		return nil
	case <-bus.done:
		return ErrBusClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func encode(payload any) (json.RawMessage, error) {
	switch value := payload.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return value, nil
	default:
		return json.Marshal(value)
	}
}
