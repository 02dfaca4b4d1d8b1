package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if rec.Name() == "" {
		t.Fatal("expected generated name")
	}

	ctx := context.Background()
	rec.Observe(ctx, "add_point", true, 20*time.Millisecond)
	rec.Observe(ctx, "add_point", true, 30*time.Millisecond)
	rec.Observe(ctx, "add_vertex", false, 5*time.Millisecond)
	rec.Observe(ctx, "", true, time.Second) // ignored

	snap := rec.Snapshot()
	if got := snap.DurationsMS["add_point"]; got != 50 {
		t.Fatalf("add_point duration = %v", got)
	}
	if got := snap.Results["add_point"]["success"]; got != 2 {
		t.Fatalf("add_point successes = %d", got)
	}
	if got := snap.Results["add_vertex"]["error"]; got != 1 {
		t.Fatalf("add_vertex errors = %d", got)
	}
	if _, ok := snap.Results[""]; ok {
		t.Fatal("empty operation recorded")
	}
}

func TestJSONTracerRecordsSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)

	ctx := context.Background()
	_, span := tracer.Start(ctx, "add_edge")
	span.End(nil)
	_, span = tracer.Start(ctx, "add_face")
	span.End(errors.New("boom"))

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Operation != "add_edge" || entries[0].Status != "success" {
		t.Fatalf("first entry = %+v", entries[0])
	}
	if entries[1].Status != "error" || entries[1].Error != "boom" {
		t.Fatalf("second entry = %+v", entries[1])
	}

	dec := json.NewDecoder(&buf)
	var decoded []JSONTraceEntry
	for dec.More() {
		var e JSONTraceEntry
		if err := dec.Decode(&e); err != nil {
			t.Fatalf("decode: %v", err)
		}
		decoded = append(decoded, e)
	}
	if len(decoded) != 2 || decoded[1].Error != "boom" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	ctx := context.Background()
	rec.Observe(ctx, "add_point", true, 10*time.Millisecond)
	rec.Observe(ctx, "add_point", false, 20*time.Millisecond)
	rec.Observe(ctx, "", true, time.Second) // ignored

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	counters := map[string]float64{}
	var histogramSamples uint64
	for _, family := range families {
		switch family.GetName() {
		case "brepcore_shape_operations_total":
			for _, m := range family.GetMetric() {
				var op, status string
				for _, label := range m.GetLabel() {
					switch label.GetName() {
					case "operation":
						op = label.GetValue()
					case "status":
						status = label.GetValue()
					}
				}
				counters[op+"/"+status] = m.GetCounter().GetValue()
			}
		case "brepcore_shape_operation_duration_seconds":
			for _, m := range family.GetMetric() {
				histogramSamples += m.GetHistogram().GetSampleCount()
			}
		}
	}
	if counters["add_point/success"] != 1 || counters["add_point/error"] != 1 {
		t.Fatalf("counters = %v", counters)
	}
	if histogramSamples != 2 {
		t.Fatalf("histogram samples = %d", histogramSamples)
	}
}

func TestPrometheusRecorderDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMetricsRecorder(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}
