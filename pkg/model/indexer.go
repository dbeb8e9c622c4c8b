package model

// indexer interface is design to give a unique index to a (day, period) slot of the weekly grid and vice versa
type indexer interface {
	// Returns a unique index in [0, Size()) for a day and period
	Index(day, period int) int
	// Returns the day and period a unique index stands for
	Attributes(index int) (day, period int)
	// Returns the number of distinct indices
	Size() int
}

func newIndexer(days, periods int) indexer {
	return &indexerImplementation{
		days:    days,
		periods: periods + 1, // Period 0 keeps its cell so that periods index directly
	}
}
