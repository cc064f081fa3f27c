package worker

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Name           string `json:"name"`
	State          string `json:"state"`
	Size           int    `json:"size"`
	LiveWorkers    int    `json:"live_workers"`
	QueueDepth     int    `json:"queue_depth"`
	Submitted      int64  `json:"submitted"`
	Completed      int64  `json:"completed"`
	Panicked       int64  `json:"panicked"`
	SubmitFailures int64  `json:"submit_failures"`
	Dropped        int64  `json:"dropped"`
}

// Stats returns a snapshot of the pool counters. Counters are read one at a
// time, so a snapshot taken under load is not atomic as a whole.
func (p *Pool) Stats() Stats {
	return Stats{
		Name:           p.opts.name,
		State:          string(p.State()),
		Size:           p.Size(),
		LiveWorkers:    p.LiveWorkers(),
		QueueDepth:     p.QueueDepth(),
		Submitted:      p.submitted.Load(),
		Completed:      p.completed.Load(),
		Panicked:       p.panicked.Load(),
		SubmitFailures: p.submitFailures.Load(),
		Dropped:        p.dropped.Load(),
	}
}
