package metric

import "errors"

// Sentinel errors. Callers branch on them with errors.Is; construction and
// inversion wrap them with context.
var (
	// ErrConfiguration is returned when a Metric cannot be built from the
	// given source: neither a twoform nor a matrix, a matrix without a
	// chart, or a twoform and matrix that disagree.
	ErrConfiguration = errors.New("metric: invalid configuration")

	// ErrNonInvertibleMetric is returned by Inverse when the metric matrix
	// is singular. It wraps symbolic.ErrSingular.
	ErrNonInvertibleMetric = errors.New("metric: metric is not invertible")

	// ErrUnknownMetric is returned by Lookup for names it does not know.
	ErrUnknownMetric = errors.New("metric: unknown metric")
)
