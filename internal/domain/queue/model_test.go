package queue

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Stage
		want     bool
	}{
		{StageWaiting, StageInTriage, true},
		{StageInTriage, StageWithDoctor, true},
		{StageWithDoctor, StageCompleted, true},
		{StageInTriage, StageWaiting, true},
		{StageWaiting, StageWaiting, true},
		{StageWaiting, StageWithDoctor, false},
		{StageWaiting, StageCompleted, false},
		{StageInTriage, StageCompleted, false},
		{StageWithDoctor, StageWaiting, false},
		{StageCompleted, StageWaiting, false},
		{StageCompleted, StageWithDoctor, false},
	}
	for _, c := range cases {
		if got := canTransition(c.from, c.to); got != c.want {
			t.Errorf("canTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestConsultationDuration(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(25 * time.Minute)

	e := &Entry{ConsultationStart: &start}
	if _, ok := e.ConsultationDuration(); ok {
		t.Error("expected undefined duration without end stamp")
	}

	e.ConsultationEnd = &end
	d, ok := e.ConsultationDuration()
	if !ok || d != 25*time.Minute {
		t.Errorf("expected 25m, got %v (ok=%v)", d, ok)
	}
}
