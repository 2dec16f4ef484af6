package game

import (
	"context"
	"log"
	"time"

	"github.com/scythe504/impostor-backend/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// schedule installs a one-shot timer in slot, replacing and cancelling any
// timer already there. onExpire runs under the service lock, and only if the
// timer is still the one installed in slot when it fires.
func (s *Service) schedule(room *internal.Room, slot **internal.GameTimer, name string, duration time.Duration, onExpire func()) {
	cancelTimer(slot)

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	timer := &internal.GameTimer{
		Name:      name,
		StartTime: s.now(),
		Duration:  duration,
		Context:   ctx,
		Cancel:    cancel,
	}
	*slot = timer
	roomCode := room.Code

	go func() {
		<-ctx.Done()
		if ctx.Err() != context.DeadlineExceeded {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if *slot != timer {
			log.Printf("[Timer] room=%s: stale %s timer fired, ignoring", roomCode, name)
			return
		}
		*slot = nil
		log.Printf("[Timer] room=%s: %s timer expired after %v", roomCode, name, duration)
		onExpire()
	}()
}

// cancelTimer stops the timer in slot, if any.
func cancelTimer(slot **internal.GameTimer) {
	if *slot == nil {
		return
	}
	if (*slot).Cancel != nil {
		(*slot).Cancel()
	}
	*slot = nil
}

func cancelAllTimers(room *internal.Room) {
	cancelTimer(&room.PhaseTimer)
	cancelTimer(&room.TransitionTimer)
	cancelTimer(&room.DeleteTimer)
}

// CancelPhaseTimer stops the current answer/discussion backstop timer.
func CancelPhaseTimer(room *internal.Room) {
	if room.PhaseTimer != nil {
		log.Printf("[CancelPhaseTimer] room=%s: cancelling %s timer", room.Code, room.PhaseTimer.Name)
	}
	cancelTimer(&room.PhaseTimer)
}

func (s *Service) phaseDeadline(seconds int) time.Duration {
	return time.Duration(seconds)*time.Second + s.cfg.PhaseTimerSlack
}
