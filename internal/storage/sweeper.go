package storage

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// ReferencedKeys reports which stored keys are still referenced by a
// course. The courses repository implements it.
type ReferencedKeys interface {
	ImageKeys() ([]string, error)
}

// Sweeper periodically deletes stored objects no longer referenced by
// any course. Orphans appear when an image upload succeeds but the
// database update does not.
type Sweeper struct {
	client Client
	refs   ReferencedKeys
	cron   *cron.Cron
}

func NewSweeper(client Client, refs ReferencedKeys) *Sweeper {
	return &Sweeper{
		client: client,
		refs:   refs,
		cron:   cron.New(),
	}
}

// Start schedules the sweep with a cron expression and runs until
// Stop is called.
func (s *Sweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.Sweep(context.Background()); err != nil {
			log.Printf("upload sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep deletes every stored key not referenced by a course.
func (s *Sweeper) Sweep(ctx context.Context) error {
	referenced, err := s.refs.ImageKeys()
	if err != nil {
		return err
	}
	referencedSet := make(map[string]bool, len(referenced))
	for _, key := range referenced {
		referencedSet[key] = true
	}

	stored, err := s.client.List(ctx)
	if err != nil {
		return err
	}

	removed := 0
	for _, key := range stored {
		if referencedSet[key] {
			continue
		}
		if err := s.client.Delete(ctx, key); err != nil {
			log.Printf("failed to remove orphaned upload %s: %v", key, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("Removed %d orphaned uploads", removed)
	}
	return nil
}
