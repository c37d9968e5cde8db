package app

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// registerCounter registers the counter with the default registerer. A
// counter already registered under the same name is reused, so building a
// second container in one process does not panic.
func registerCounter(c prometheus.Counter) prometheus.Counter {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing
			}
		}
	}
	return c
}
