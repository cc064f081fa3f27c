package worker

import "errors"

var (
	// ErrChannelClosed is returned when sending on a closed job channel.
	ErrChannelClosed = errors.New("worker: job channel is closed")

	// ErrDisconnected is returned by a receive on a closed, empty job channel.
	ErrDisconnected = errors.New("worker: job channel disconnected")
)
