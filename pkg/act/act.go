// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package act splits a command into a validated input, the dependencies it
// runs against, the action itself and the rendering of its result.
package act

import (
	"context"
	"io"
)

// Input is a validated command configuration.
type Input interface {
	Validate() error
}

// Deps is a marker type for dependency containers.
type Deps any

// InitDeps initializes dependencies from context.
type InitDeps[D Deps] func(context.Context) (D, error)

// Action is the operation behind a command.
type Action[I Input, O any, D Deps] func(context.Context, I, D) (*O, error)

// Render writes the result of an Action for the given input.
// A nil Render writes nothing.
type Render[I Input, O any] func(io.Writer, I, *O) error

// NoOutput is a zero-value output for actions that only produce side effects.
type NoOutput struct{}
