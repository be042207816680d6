package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"portfolio-api/internal/repository"
)

const sweepTimeout = 2 * time.Minute

// OrphanSweeper periodically deletes tasks whose project no longer exists.
type OrphanSweeper struct {
	projects repository.ProjectStore
	tasks    repository.TaskStore
	schedule string
	cron     *cron.Cron
}

func NewOrphanSweeper(projects repository.ProjectStore, tasks repository.TaskStore, schedule string) *OrphanSweeper {
	return &OrphanSweeper{
		projects: projects,
		tasks:    tasks,
		schedule: schedule,
		cron:     cron.New(),
	}
}

func (s *OrphanSweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			log.Printf("orphan sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule orphan sweep %q failed: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Printf("orphan sweeper scheduled (%s)", s.schedule)
	return nil
}

// Sweep runs one pass and returns the number of deleted tasks.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int64, error) {
	referenced, err := s.tasks.DistinctProjectIDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(referenced) == 0 {
		return 0, nil
	}

	existing, err := s.projects.ExistingIDs(ctx, referenced)
	if err != nil {
		return 0, err
	}
	alive := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		alive[id] = struct{}{}
	}

	var orphaned []string
	for _, id := range referenced {
		if _, ok := alive[id]; !ok {
			orphaned = append(orphaned, id)
		}
	}
	if len(orphaned) == 0 {
		return 0, nil
	}

	n, err := s.tasks.DeleteByProjectIDs(ctx, orphaned)
	if err != nil {
		return 0, err
	}
	log.Printf("orphan sweep removed %d tasks across %d missing projects", n, len(orphaned))
	return n, nil
}

func (s *OrphanSweeper) Close() {
	<-s.cron.Stop().Done()
}
