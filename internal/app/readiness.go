package app

import (
	"context"
	"fmt"

	httpserver "github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/httpserver"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// Pinger is anything that can verify its upstream connection.
type Pinger interface{ Ping(ctx context.Context) error }

// BuildReadinessChecks returns the readiness probes: the taxonomy must have at
// least one role, and redis and tika are probed only when configured.
func BuildReadinessChecks(tax domain.Taxonomy, redis Pinger, tika Pinger) []httpserver.Check {
	checks := []httpserver.Check{{
		Name: "taxonomy",
		Probe: func(context.Context) error {
			if tax.Len() == 0 {
				return fmt.Errorf("taxonomy has no roles")
			}
			return nil
		},
	}}
	if redis != nil {
		checks = append(checks, httpserver.Check{Name: "redis", Probe: redis.Ping})
	}
	if tika != nil {
		checks = append(checks, httpserver.Check{Name: "tika", Probe: tika.Ping})
	}
	return checks
}
