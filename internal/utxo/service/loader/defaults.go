package loader

const (
	defaultWorkers                = 16
	defaultChannelCapacity        = 64
	defaultMaxDBConcurrency       = 10
	defaultProgressEvery          = 1000
	defaultMaxConsecutiveFailures = 100
)

const (
	outcomeCommitted = "committed"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
	outcomeSkipped   = "skipped"
	outcomeAbandoned = "abandoned"
)
