package agent

import (
	ai "github.com/callaby/bowline"
)

// Options contains configuration for a run.
type Options struct {
	// ChatOptions are passed through to the underlying ChatProvider.
	ChatOptions []ai.Option

	// State is an opaque application state snapshot emitted at the start
	// of the run. If nil, no snapshot is emitted.
	State any
}

// Option is a functional option for configuring a run. Options given to
// New apply to every run; options given to Run or RunStream apply on top
// of them.
type Option func(*Options)

// WithChatOptions passes options through to the ChatProvider.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for chat calls.
func WithModel(model string) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithModel(model))
	}
}

// WithSystemPrompt is a convenience option to set the system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithSystem(prompt))
	}
}

// WithMaxTokens is a convenience option to set max tokens for chat calls.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithMaxTokens(n))
	}
}

// WithTemperature is a convenience option to set temperature for chat calls.
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithTemperature(t))
	}
}

// WithTools makes the given tools available to the model for this run.
func WithTools(tools []ai.Tool) Option {
	return func(o *Options) {
		if len(tools) > 0 {
			o.ChatOptions = append(o.ChatOptions, ai.WithTools(tools))
		}
	}
}

// WithState sets the application state snapshot for this run.
func WithState(state any) Option {
	return func(o *Options) {
		o.State = state
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
