// Package state provides the accumulating key-value store threaded through an
// orchestration run: recursive merge on update, aliasing-free snapshots, and
// an owned progress tracker.
package state

// State accumulates run data across phase handlers. It is not safe for
// concurrent use; each logical run needs its own State.
type State struct {
	data     map[string]any
	progress *ProgressTracker
}

// New creates an empty State with a fresh ProgressTracker.
func New() *State {
	return &State{
		data:     make(map[string]any),
		progress: NewProgressTracker(),
	}
}

// Apply merges a payload into the accumulated data. Map payloads merge
// recursively: where both the existing and incoming values are maps the merge
// recurses, otherwise the incoming value overwrites. Non-map payloads are
// ignored, not errors. Incoming values are deep-copied so later mutation of
// the payload cannot reach the live container.
func (s *State) Apply(payload any) {
	incoming, ok := payload.(map[string]any)
	if !ok {
		return
	}
	mergeInto(s.data, incoming)
}

// Get returns the value stored under key, without copying.
func (s *State) Get(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Set stores a single key, deep-copying the value.
func (s *State) Set(key string, value any) {
	s.data[key] = deepCopyValue(value)
}

// Delete removes a key from the accumulated data.
func (s *State) Delete(key string) {
	delete(s.data, key)
}

// Snapshot returns a deep copy of the accumulated data. Mutating the snapshot
// never affects the live container, and vice versa.
func (s *State) Snapshot() map[string]any {
	return deepCopyMap(s.data)
}

// Progress returns the tracker owned by this State.
func (s *State) Progress() *ProgressTracker {
	return s.progress
}

func mergeInto(dst, src map[string]any) {
	for key, incoming := range src {
		existingMap, existingOK := dst[key].(map[string]any)
		incomingMap, incomingOK := incoming.(map[string]any)
		if existingOK && incomingOK {
			mergeInto(existingMap, incomingMap)
			continue
		}
		dst[key] = deepCopyValue(incoming)
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
