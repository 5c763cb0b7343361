package journal

import "time"

// Models lists every table the journal migrates.
var Models = []any{
	&Run{},
	&DecisionRow{},
	&OutcomeRow{},
}

// Run is one harness session.
type Run struct {
	ID        uint `gorm:"primarykey"`
	StartedAt time.Time
	EndedAt   *time.Time
	Seed      int64
	TickRate  int
	Ticks     int32
}

// DecisionRow is one decision the agent acted on.
type DecisionRow struct {
	ID         uint   `gorm:"primarykey"`
	RunID      uint   `gorm:"index"`
	Tick       int32  `gorm:"index"`
	Time       float64
	Kind       string `gorm:"size:32;index"`
	Class      string `gorm:"size:32"`
	Score      float64
	Candidates int
	Boost      float64
	BallX      float64
	BallY      float64
	BallZ      float64
	TargetX    float64
	TargetY    float64
	TargetZ    float64
	PadIndex   int
	Tap        bool
}

// OutcomeRow is a harness outcome such as a goal or pad pickup.
type OutcomeRow struct {
	ID    uint   `gorm:"primarykey"`
	RunID uint   `gorm:"index"`
	Tick  int32
	Time  float64
	Kind  string `gorm:"size:32;index"`
}
