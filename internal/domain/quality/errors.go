package quality

import "errors"

var (
	ErrReportNotFound  = errors.New("data quality report not found")
	ErrNegativeCount   = errors.New("report counts must be non-negative")
	ErrCountMismatch   = errors.New("valid and invalid readings must sum to actual readings")
	ErrUptimeMismatch  = errors.New("uptime and downtime must sum to the expected day length")
	ErrScoreOutOfRange = errors.New("completeness score must be between 0 and 100")
)
