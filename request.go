package schedq

import "net/url"

// Request is one pending unit of work. The scheduler never mutates a
// request's identity; it only fills in the Slot field when no override
// was set by the caller.
type Request struct {
	// URL is the target identifier.
	URL string

	// Priority orders dispatch within a slot. Higher values go first.
	Priority int

	// Slot names the scheduling partition. Empty means "derive from the
	// URL host on first enqueue"; the derived value is written back so it
	// stays stable for the request's remaining lifetime.
	Slot string

	// Meta carries caller-owned key-value data. Opaque to the scheduler.
	Meta map[string]string
}

// Slot returns the scheduling slot for r, computing and recording the
// default (the URL hostname, empty when unparsable) when no override is
// set. Two requests with the same override or the same host always map
// to the same slot.
func Slot(r *Request) (string, error) {
	if r == nil {
		return "", Errorf(EINVALID, "request required")
	}
	if r.Slot != "" {
		return r.Slot, nil
	}
	if u, err := url.Parse(r.URL); err == nil {
		r.Slot = u.Hostname()
	}
	return r.Slot, nil
}

// FromAny converts a structured request or a plain key-value mapping
// (e.g. a decoded JSON or YAML document) into a *Request. Recognized
// mapping keys are "url", "priority", "slot", and "meta". Any other kind
// of value is rejected with EINVALID.
func FromAny(v any) (*Request, error) {
	switch r := v.(type) {
	case *Request:
		if r == nil {
			return nil, Errorf(EINVALID, "request required")
		}
		return r, nil
	case map[string]any:
		req := &Request{}
		if s, ok := r["url"].(string); ok {
			req.URL = s
		}
		if s, ok := r["slot"].(string); ok {
			req.Slot = s
		}
		switch p := r["priority"].(type) {
		case int:
			req.Priority = p
		case float64:
			// JSON numbers decode as float64.
			req.Priority = int(p)
		}
		if m, ok := r["meta"].(map[string]any); ok {
			req.Meta = make(map[string]string, len(m))
			for k, mv := range m {
				if s, ok := mv.(string); ok {
					req.Meta[k] = s
				}
			}
		}
		return req, nil
	default:
		return nil, Errorf(EINVALID, "bad request kind %T: want *Request or map[string]any", v)
	}
}
