package worker

// Job is a unit of work. It is run at most once, on one worker.
type Job func()

type messageKind uint8

const (
	msgNewJob messageKind = iota
	msgTerminate
)

// message is what travels on the job channel: a job, or a terminate signal
// addressed to whichever worker receives it.
type message struct {
	kind messageKind
	job  Job
}

func newJobMessage(job Job) message {
	return message{kind: msgNewJob, job: job}
}

var terminateMessage = message{kind: msgTerminate}
