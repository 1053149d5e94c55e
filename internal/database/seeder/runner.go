package seeder

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

type Runner struct {
	Seeders []Seeder
	Logger  logrus.FieldLogger
}

func (r Runner) Run(ctx context.Context, env Env) error {
	if env.Sync == nil || env.Listings == nil {
		return fmt.Errorf("incomplete seed env")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, env); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.WithField("seeder", s.Name()).Info("seeded")
		}
	}
	return nil
}
