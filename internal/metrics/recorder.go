package metrics

import "time"

// ResultLabel enumerates pass and hook result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for builds, passes and tag generation.
// Implementations may forward to Prometheus or any other backend.
type Recorder interface {
	ObserveHookDuration(hook string, d time.Duration)
	ObservePassDuration(d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncPassResult(result ResultLabel)
	IncBuildOutcome(result ResultLabel)
	SetRecordsCollected(n int)
	SetTagGroups(n int)
	IncPagesRendered(n int)
	IncRebuildRequest()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveHookDuration(string, time.Duration) {}
func (NoopRecorder) ObservePassDuration(time.Duration)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) IncPassResult(ResultLabel)                 {}
func (NoopRecorder) IncBuildOutcome(ResultLabel)               {}
func (NoopRecorder) SetRecordsCollected(int)                   {}
func (NoopRecorder) SetTagGroups(int)                          {}
func (NoopRecorder) IncPagesRendered(int)                      {}
func (NoopRecorder) IncRebuildRequest()                        {}
