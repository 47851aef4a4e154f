package geofence

import "errors"

var (
	ErrGeofenceNotFound = errors.New("geofence not found")
	ErrInvalidRadius    = errors.New("geofence radius must be positive")
)
