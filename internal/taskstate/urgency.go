package taskstate

import (
	"time"

	"github.com/gurkanbulca/pronote/internal/models"
)

const day = 24 * time.Hour

// Urgency thresholds, in whole days remaining.
const (
	criticalDays = 3
	warningDays  = 13
)

const (
	CriticalMessage = "Time is almost up, finish the assigned task!"
	WarningMessage  = "The deadline is approaching, don't wait too long!"
)

type Level uint8

const (
	LevelNone Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "none"
	}
}

// Color is the banner severity shown next to a deadline.
type Color string

const (
	ColorNone   Color = ""
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
)

type Urgency struct {
	Level   Level
	Message string
	Color   Color
}

// None is the zero urgency: no banner.
var None = Urgency{}

// IsNone reports whether no banner should be shown.
func (u Urgency) IsNone() bool {
	return u.Level == LevelNone
}

// DaysRemaining is ceil((deadline - now) / 1 day). Partial days round up, so
// 2.1 days away counts as 3; anything already past is zero or negative.
func DaysRemaining(deadline, now time.Time) int {
	d := deadline.Sub(now)
	days := d / day
	if d%day > 0 {
		days++
	}
	return int(days)
}

// EvaluateUrgency maps a deadline, the evaluation instant and the task
// status to a banner. Completed tasks and past-due tasks get none; past-due
// tracking belongs to the FailedToDo history bucket instead.
func EvaluateUrgency(deadline, now time.Time, status models.Status) Urgency {
	if status == models.StatusCompleted {
		return None
	}

	days := DaysRemaining(deadline, now)
	switch {
	case days <= 0:
		return None
	case days <= criticalDays:
		return Urgency{Level: LevelCritical, Message: CriticalMessage, Color: ColorRed}
	case days <= warningDays:
		return Urgency{Level: LevelWarning, Message: WarningMessage, Color: ColorOrange}
	default:
		return None
	}
}

// TaskUrgency evaluates a stored task. A deadline that failed to parse yields
// no urgency.
func TaskUrgency(t *models.Task, now time.Time) Urgency {
	if !t.Deadline.Valid {
		return None
	}
	return EvaluateUrgency(t.Deadline.Time, now, t.Status)
}
