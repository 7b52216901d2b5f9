package cron

import (
	"context"
	"log/slog"
	"time"

	attendanceservice "github.com/shiftwise/attendance-backend-go/internal/service/attendance"
)

// SweepInterval is how often forgotten sessions are reconciled.
const SweepInterval = 10 * time.Minute

type AttendanceJobs struct {
	sweeper *attendanceservice.Sweeper
}

func NewAttendanceJobs(sweeper *attendanceservice.Sweeper) *AttendanceJobs {
	return &AttendanceJobs{sweeper: sweeper}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("attendance_sweep", SweepInterval, j.SweepForgottenSessions)
}

func (j *AttendanceJobs) SweepForgottenSessions(ctx context.Context) error {
	closed, err := j.sweeper.SweepTick(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if closed > 0 {
		slog.Info("Cron: auto-closed forgotten sessions", "count", closed)
	}
	return nil
}
