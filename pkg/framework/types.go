package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Message is consumed by controllers in the loop.
type Message interface {
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
}

// Controller runs once per loop iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext is the context of the current loop iteration.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is when the iteration started.
	Time() time.Time
	// Messages are the messages queued before the iteration started.
	Messages() MessageStore

	LoopControl
}

// Priority levels, controllers at lower levels run first.
const (
	PrLvControl int = iota
	PrLvPostProc
	PrLvIdle

	PriorityLevels
)

// LoopControl exposes access to the loop.
type LoopControl interface {
	// PostMessage queues a message for the next iteration.
	PostMessage(Message)
	// TriggerNext runs the next iteration without waiting for the interval.
	TriggerNext()
}

// MessageStore holds the messages of an iteration.
type MessageStore interface {
	ProcessMessages(MessageProcessor)
}

// MessageProcessor examines one message at a time.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext provides the message being processed.
type MessageProcessingContext interface {
	CurrentMessage() Message
	// MessageTaken removes the message from the store.
	MessageTaken()
}
