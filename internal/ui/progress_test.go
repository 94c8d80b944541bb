package ui

import (
	"strings"
	"testing"
	"time"

	"zlang/internal/buildpipeline"
)

func TestApplyEventTracksFiles(t *testing.T) {
	m := NewProgressModel("check", []string{"a.z", "b.z"}, nil).(*progressModel)

	events := []buildpipeline.Event{
		{File: "a.z", Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusWorking},
		{File: "b.z", Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusWorking},
		{File: "a.z", Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusDone, Elapsed: 2 * time.Millisecond},
		{File: "b.z", Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusError},
		{File: "b.z", Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusDone},
		{File: "unknown.z", Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusDone},
		{Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusError},
	}
	for _, ev := range events {
		m.applyEvent(ev)
	}

	if m.items[0].status != "done" || !m.items[0].final || m.items[0].elapsed != 2*time.Millisecond {
		t.Fatalf("a.z = %+v", m.items[0])
	}
	if m.items[1].status != "error" || m.failed != 1 {
		t.Fatalf("b.z = %+v, failed = %d", m.items[1], m.failed)
	}
	if m.stageLabel != "error" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	if m.percent() != 1.0 {
		t.Fatalf("percent = %v", m.percent())
	}
}

func TestCompileStagesAdvance(t *testing.T) {
	m := NewProgressModel("compile", []string{"main.z"}, nil).(*progressModel)
	m.applyEvent(buildpipeline.Event{File: "main.z", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone})
	if m.items[0].final || m.items[0].status != "parsing" {
		t.Fatalf("parse done must not finish the file: %+v", m.items[0])
	}
	m.applyEvent(buildpipeline.Event{File: "main.z", Stage: buildpipeline.StageCodegen, Status: buildpipeline.StatusWorking})
	if got := m.percent(); got != 0.6 {
		t.Fatalf("percent = %v", got)
	}
	m.applyEvent(buildpipeline.Event{File: "main.z", Stage: buildpipeline.StageAssemble, Status: buildpipeline.StatusDone})
	if !m.items[0].final {
		t.Fatalf("assemble done finishes the file")
	}
}

func TestViewListsFiles(t *testing.T) {
	m := NewProgressModel("check", []string{"a.z"}, nil).(*progressModel)
	m.done = true
	view := m.View()
	if !strings.Contains(view, "done: check") || !strings.Contains(view, "a.z") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"very/long/path.z", 10, "very/lo..."},
		{"abcdef", 2, "ab"},
		{"any", 0, "any"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := truncate(tt.value, tt.width); got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.value, tt.width, got, tt.want)
			}
		})
	}
}
