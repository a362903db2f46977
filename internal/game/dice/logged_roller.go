package dice

import "go.uber.org/zap"

// Roller wraps a Set and logger so every roll of the set is logged at debug
// level with the resulting values and the held mask.
type Roller struct {
	set    *Set
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller over set that logs to logger.
//
// Precondition: set and logger must be non-nil.
func NewLoggedRoller(set *Set, logger *zap.Logger) *Roller {
	return &Roller{set: set, logger: logger}
}

// Roll rolls the unheld dice of the wrapped set and logs the outcome.
//
// Postcondition: returns the snapshot taken after the roll.
func (r *Roller) Roll() View {
	before := r.set.View()
	r.set.Roll()
	after := r.set.View()
	r.logger.Debug("dice roll",
		zap.Ints("before", before.Values[:]),
		zap.Ints("after", after.Values[:]),
		zap.Bools("held", after.Held[:]),
		zap.Int("sum", after.Sum()),
	)
	return after
}
