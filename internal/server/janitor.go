package server

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tonquiz/miniapp/internal/repositories"
	"github.com/tonquiz/miniapp/pkg/logger"
)

// Janitor closes abandoned rooms on a schedule so the public list stays
// joinable.
type Janitor struct {
	cron     *cron.Cron
	roomRepo *repositories.RoomRepository
	maxAge   time.Duration
}

func NewJanitor(roomRepo *repositories.RoomRepository, maxAge time.Duration) *Janitor {
	return &Janitor{
		cron:     cron.New(),
		roomRepo: roomRepo,
		maxAge:   maxAge,
	}
}

// Start schedules the hourly sweep.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc("@hourly", j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	logger.Info("room janitor started", "max_age", j.maxAge.String())
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) sweep() {
	closed, err := j.roomRepo.FinishStaleRooms(j.maxAge)
	if err != nil {
		logger.Error("stale room sweep failed", "error", err)
		return
	}
	if closed > 0 {
		logger.Info("closed stale rooms", "count", closed)
	}
}
