package model

import (
	"log/slog"
	"sync"
)

// WarningKind classifies a non-fatal diagnostic.
type WarningKind string

const (
	// WarnFieldMapping reports an input name that matches no model slot.
	WarnFieldMapping WarningKind = "field_mapping"
	// WarnPrefixConflict reports a prefix declared with two namespaces.
	WarnPrefixConflict WarningKind = "prefix_conflict"
	// WarnRelation reports an alignment relation with no known predicate.
	WarnRelation WarningKind = "relation"
	// WarnElement reports an unsupported alignment element.
	WarnElement WarningKind = "element"
	// WarnSerialisation reports a fallback to the default serialisation.
	WarnSerialisation WarningKind = "serialisation"
)

// Warning is one non-fatal diagnostic raised while converting.
type Warning struct {
	Kind    WarningKind
	Name    string
	Count   int
	Message string
}

// Warnings collects diagnostics. The zero value is ready to use and a nil
// *Warnings discards everything.
type Warnings struct {
	mu    sync.Mutex
	items []Warning
}

// Add records w.
func (ws *Warnings) Add(w Warning) {
	if ws == nil {
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.items = append(ws.items, w)
}

// All returns a copy of the recorded warnings in order.
func (ws *Warnings) All() []Warning {
	if ws == nil {
		return nil
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	out := make([]Warning, len(ws.items))
	copy(out, ws.items)
	return out
}

// Of returns the recorded warnings of one kind.
func (ws *Warnings) Of(kind WarningKind) []Warning {
	var out []Warning
	for _, w := range ws.All() {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Len returns the number of recorded warnings.
func (ws *Warnings) Len() int {
	if ws == nil {
		return 0
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.items)
}

// Report logs w at warn level and records it in sink.
func Report(logger *slog.Logger, sink *Warnings, w Warning) {
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{"kind", string(w.Kind)}
	if w.Name != "" {
		attrs = append(attrs, "name", w.Name)
	}
	if w.Count > 0 {
		attrs = append(attrs, "count", w.Count)
	}
	logger.Warn(w.Message, attrs...)
	sink.Add(w)
}
