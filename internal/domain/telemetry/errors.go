package telemetry

import "errors"

var (
	ErrReadingNotFound  = errors.New("no telemetry reading found")
	ErrDuplicateReading = errors.New("reading already exists for this device and timestamp")
	ErrNoPositionData   = errors.New("no position data available for this device")
)
