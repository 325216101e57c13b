package mock

import (
	"sync"
	"time"
)

// Time is a clock that can be moved to any date. It keeps ticking from the date it was set to.
type Time struct {
	mu               sync.RWMutex
	currentStartTime time.Time
	updatedAt        time.Time
}

func NewTime() *Time {
	return &Time{
		currentStartTime: time.Now(),
		updatedAt:        time.Now(),
	}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentStartTime = currentTime
	t.updatedAt = time.Now()
}

// SetCurrentDate moves the clock to midday UTC of a YYYY-MM-DD date.
func (t *Time) SetCurrentDate(date string) error {
	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return err
	}
	t.SetCurrentTime(parsed.Add(12 * time.Hour))
	return nil
}

func (t *Time) Reset() {
	t.SetCurrentTime(time.Now())
}

func (t *Time) Now() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.currentStartTime.Add(time.Since(t.updatedAt))
}
