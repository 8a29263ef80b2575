package observer

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type countingObserver struct {
	name  string
	count atomic.Int64
}

func (o *countingObserver) OnEvent(ctx context.Context, event AnalysisEvent) { o.count.Add(1) }
func (o *countingObserver) GetObserverName() string                        { return o.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event AnalysisEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                        { return "panicking" }

func TestMetricsObserver_Snapshot(t *testing.T) {
	o := NewMetricsObserver()
	ctx := context.Background()

	events := []AnalysisEvent{
		{EventType: AnalysisStarted},
		{EventType: AnalysisCompleted, ProcessingTime: 2 * time.Second, Severity: "Mild"},
		{EventType: AnalysisStarted},
		{EventType: AnalysisDegraded, ProcessingTime: 4 * time.Second},
		{EventType: AnalysisStarted},
		{EventType: ImageFetchFailed},
		{EventType: AnalysisFailed},
	}
	for _, e := range events {
		o.OnEvent(ctx, e)
	}

	s := o.Snapshot()
	if s.TotalAnalyses != 3 || s.SuccessfulAnalyses != 1 || s.DegradedAnalyses != 1 || s.FailedAnalyses != 1 || s.FetchFailures != 1 {
		t.Errorf("Unexpected counters %+v", s)
	}
	if s.AvgProcessingTimeSec != 3 {
		t.Errorf("Expected 3s average, got %f", s.AvgProcessingTimeSec)
	}
	if s.SeverityCounts["Mild"] != 1 {
		t.Errorf("Expected one Mild report, got %v", s.SeverityCounts)
	}
}

func TestMetricsObserver_EmptySnapshot(t *testing.T) {
	s := NewMetricsObserver().Snapshot()
	if s.TotalAnalyses != 0 || s.AvgProcessingTimeSec != 0 || s.SeverityCounts == nil {
		t.Errorf("Unexpected empty snapshot %+v", s)
	}
}

func TestEventPublisher_NotifyIsolatesPanics(t *testing.T) {
	p := NewEventPublisher()
	first := &countingObserver{name: "first"}
	second := &countingObserver{name: "second"}
	p.Subscribe(first)
	p.Subscribe(panickingObserver{})
	p.Subscribe(second)

	p.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted})

	if first.count.Load() != 1 || second.count.Load() != 1 {
		t.Errorf("Expected every healthy observer notified once, got %d/%d", first.count.Load(), second.count.Load())
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	p := NewEventPublisher()
	o := &countingObserver{name: "counter"}
	p.Subscribe(o)
	p.Unsubscribe(o)

	p.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted})
	if o.count.Load() != 0 {
		t.Error("Unsubscribed observer was notified")
	}
}

func TestLoggingObserver_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	NewLoggingObserver(l).OnEvent(context.Background(), AnalysisEvent{
		EventType:  AnalysisDegraded,
		AnalysisID: "abc",
		Source:     "face.png",
		Metadata:   map[string]interface{}{"bytes": 12},
	})

	out := buf.String()
	for _, want := range []string{`"analysis_id":"abc"`, `"source":"face.png"`, `"bytes":12`, `"level":"warning"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in log line %s", want, out)
		}
	}
}
