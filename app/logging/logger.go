// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging configures the application-wide zerolog logger.
//
// The inventory JSON contract owns stdout, so the default sink is stderr.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Option mutates the logger configuration before construction.
type Option func(*options) error

type options struct {
	level zerolog.Level
	sink  io.Writer
}

// WithLevel sets the log level from its string name (debug, info, warn, ...).
func WithLevel(level string) Option {
	return func(o *options) error {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return err
		}
		o.level = parsed
		return nil
	}
}

// WithSink redirects log output away from stderr.
func WithSink(w io.Writer) Option {
	return func(o *options) error {
		o.sink = w
		return nil
	}
}

// NewLogger creates a timestamped zerolog logger with the given options applied.
func NewLogger(opts ...Option) (*zerolog.Logger, error) {
	o := options{
		level: zerolog.InfoLevel,
		sink:  os.Stderr,
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	logger := zerolog.New(o.sink).Level(o.level).With().Timestamp().Logger()
	return &logger, nil
}
