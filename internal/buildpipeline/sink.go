package buildpipeline

import (
	"sync"
	"time"

	"zlang/internal/driver"
)

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// RecordingSink keeps every event; used by --quiet runs and tests.
type RecordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *RecordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *RecordingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}

// stageOf maps driver phase names onto pipeline stages.
func stageOf(phase string) (Stage, bool) {
	switch phase {
	case "load", "lex", "parse":
		return StageParse, true
	case "typecheck":
		return StageCheck, true
	case "codegen":
		return StageCodegen, true
	}
	return "", false
}

// phaseObserver переводит события фаз драйвера в события стадий и
// записывает тайминги.
type phaseObserver struct {
	sink    ProgressSink
	files   []string
	timings *Timings
}

func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	stage, ok := stageOf(ev.Name)
	if !ok {
		return
	}
	switch ev.Status {
	case driver.PhaseStart:
		emitStage(p.sink, p.files, stage, StatusWorking, nil, 0)
	case driver.PhaseEnd:
		p.timings.Add(stage, ev.Elapsed)
		status := StatusDone
		if ev.Err != nil {
			status = StatusError
		}
		emitStage(p.sink, p.files, stage, status, ev.Err, ev.Elapsed)
	}
}
