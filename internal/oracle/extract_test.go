package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSONArrayFenced(t *testing.T) {
	input := "Here is the result:\n```json\n[{\"a\":1}]\n```"
	got, err := ExtractJSONArray(input)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if got != `[{"a":1}]` {
		t.Errorf("unexpected extraction: %s", got)
	}
}

func TestExtractJSONArrayProseWrapped(t *testing.T) {
	input := `Sure! Based on the signals, here are the themes: [1, [2, 3], 4] hope that helps.`
	got, err := ExtractJSONArray(input)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if got != "[1, [2, 3], 4]" {
		t.Errorf("unexpected extraction: %s", got)
	}
}

func TestExtractJSONArrayNoBracket(t *testing.T) {
	_, err := ExtractJSONArray("no array here")
	if !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestExtractJSONArrayUnclosed(t *testing.T) {
	_, err := ExtractJSONArray(`[{"a":1}`)
	if !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestExtractJSONArrayBracketsInsideStrings(t *testing.T) {
	input := `[{"quote":"I lost my data ] and [ everything"}]`
	got, err := ExtractJSONArray(input)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	var parsed []map[string]string
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("extracted array does not parse: %v", err)
	}
	if len(parsed) != 1 {
		t.Errorf("expected 1 element, got %d", len(parsed))
	}
}

func TestManagerPickOrder(t *testing.T) {
	m := NewManager()
	m.AddProvider(fakeProvider{name: "down", available: false})
	m.AddProvider(fakeProvider{name: "up", available: true})

	p := m.Pick()
	if p == nil || p.Name() != "up" {
		t.Fatalf("expected first available provider, got %v", p)
	}

	m.SetPreferred("down")
	if p := m.Pick(); p.Name() != "up" {
		t.Errorf("unavailable preferred provider should be skipped, got %s", p.Name())
	}
}

func TestManagerPickEmpty(t *testing.T) {
	m := NewManager()
	if p := m.Pick(); p != nil {
		t.Errorf("expected nil from empty manager, got %v", p)
	}
	var nilManager *Manager
	if p := nilManager.Pick(); p != nil {
		t.Errorf("expected nil from nil manager, got %v", p)
	}
}

type fakeProvider struct {
	name      string
	available bool
}

func (f fakeProvider) Name() string    { return f.name }
func (f fakeProvider) Available() bool { return f.available }
func (f fakeProvider) Generate(ctx context.Context, req Request) (Response, error) {
	return Response{}, nil
}
