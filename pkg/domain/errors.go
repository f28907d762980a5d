package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownMode is returned when a mode name is outside the closed mode set.
var ErrUnknownMode = errors.New("unknown mode")

// ErrUnknownCommand is returned when a chat command has no handler.
var ErrUnknownCommand = errors.New("unknown command")

// ErrUnknownCallback is returned when a button callback carries unrecognized data.
var ErrUnknownCallback = errors.New("unknown callback")
