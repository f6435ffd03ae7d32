package broker

// RunEvent is the payload pushed to the live feed when a run is created.
type RunEvent struct {
	RunID    uint   `json:"run_id"`
	Game     string `json:"game"`
	RunTime  string `json:"run_time"`
	Username string `json:"username"`
}

// RunEventBroker fans run-created events out to feed subscribers. A single
// node could do this in-process; redis pub/sub keeps it working across nodes.
type RunEventBroker interface {
	PublishRunCreated(event RunEvent) error
	Subscribe() (<-chan RunEvent, error)
	Close() error
}
