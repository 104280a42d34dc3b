// Copyright (c) 2026 RepSet. All rights reserved.

package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/repset/edge/pkg/uuidv7"
)

// # Sink Contract

// Sink persists events. The postgres implementation appends to the activity
// log table; tests inject in-memory fakes.
type Sink interface {

	/*
		Insert appends a single event.

		Parameters:
		  - context: context.Context
		  - event: *Event

		Returns:
		  - error: Persistence failures (logged and dropped by the recorder)
	*/
	Insert(context context.Context, event *Event) error
}

// # Recorder

const (
	// queueCapacity bounds the in-flight event backlog. When the queue is
	// full, new events are dropped rather than blocking the response path.
	queueCapacity = 1024

	// insertTimeout caps how long the worker waits on a single sink write.
	insertTimeout = 5 * time.Second
)

// Recorder accepts events without blocking and drains them in the background.
type Recorder struct {
	sink  Sink
	log   *slog.Logger
	queue chan *Event

	closeOnce sync.Once
	done      chan struct{}
}

// NewRecorder constructs a Recorder and starts its worker goroutine.
func NewRecorder(sink Sink, logger *slog.Logger) *Recorder {
	recorder := &Recorder{
		sink:  sink,
		log:   logger,
		queue: make(chan *Event, queueCapacity),
		done:  make(chan struct{}),
	}

	go recorder.drain()

	return recorder
}

// Record enqueues an event. It never blocks and never returns an error.
//
// Missing IDs and timestamps are filled in here so callers only describe
// what happened.
func (recorder *Recorder) Record(event *Event) {
	if event == nil {
		return
	}

	if event.ID == "" {
		event.ID = uuidv7.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	select {
	case recorder.queue <- event:
	default:
		// Backpressure policy: drop, log, move on. Audit events are
		// best-effort and must never slow down a response.
		recorder.log.Warn("activity_event_dropped",
			slog.String("action", event.Action),
			slog.String("resource_id", event.ResourceID),
		)
	}
}

// drain is the worker loop. It runs until Close and uses a context detached
// from any request, so dispatched events survive client disconnects.
func (recorder *Recorder) drain() {
	defer close(recorder.done)

	for event := range recorder.queue {
		insertCtx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		err := recorder.sink.Insert(insertCtx, event)
		cancel()

		if err != nil {
			// Swallowed by contract. Logged for operability only.
			recorder.log.Warn("activity_insert_failed",
				slog.String("event_id", event.ID),
				slog.String("action", event.Action),
				slog.Any("error", err),
			)
		}
	}
}

// Close stops accepting events and waits for the backlog to flush, or for
// the context to expire, whichever comes first.
func (recorder *Recorder) Close(ctx context.Context) error {
	recorder.closeOnce.Do(func() {
		close(recorder.queue)
	})

	select {
	case <-recorder.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
