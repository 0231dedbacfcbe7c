package actionparser

// filterState is one of the four states of the byte-level suppression
// machine: the stream is either plainly outside an action block, has
// seen a prefix of "<action>" that might complete, is inside a block, or
// has seen a prefix of "</action>" that might complete. Kept as a small
// state machine fed incrementally by stream chunks rather than regex
// against incomplete buffers, per the design note on streaming-parser
// coupling.
type filterState int

const (
	stateOutside filterState = iota
	statePossiblyEntering
	stateInside
	statePossiblyLeaving
)

const (
	openTag  = "<action>"
	closeTag = "</action>"
)

// StreamFilter consumes an assistant response incrementally and emits
// only the bytes outside any <action>...</action> region, so the REPL
// never shows action markup mid-stream. Feed it one chunk at a time via
// Write, which returns the part of that chunk that is safe to display.
type StreamFilter struct {
	state   filterState
	pending []byte // unconfirmed prefix of the tag we might be entering/leaving
	visible []byte
	full    []byte // full text seen so far, for the final parse pass
	any     bool   // whether any visible byte has been emitted yet
}

// NewStreamFilter returns a filter ready to consume the first chunk of a
// new iteration's streamed response.
func NewStreamFilter() *StreamFilter {
	return &StreamFilter{}
}

// Write feeds the next chunk of raw model output through the filter and
// returns the portion of it (if any) newly safe to display.
func (f *StreamFilter) Write(chunk string) string {
	f.full = append(f.full, chunk...)

	var out []byte
	for i := 0; i < len(chunk); i++ {
		c := chunk[i]
		switch f.state {
		case stateOutside:
			if c == openTag[0] {
				f.pending = append(f.pending[:0], c)
				f.state = statePossiblyEntering
			} else {
				out = append(out, c)
			}
		case statePossiblyEntering:
			f.pending = append(f.pending, c)
			if !matchesPrefix(f.pending, openTag) {
				// Not actually entering a block; flush what came before
				// as ordinary visible text and rescan this byte, which
				// may itself start a new tag.
				out = append(out, f.pending[:len(f.pending)-1]...)
				f.pending = f.pending[:0]
				f.state = stateOutside
				i--
			} else if len(f.pending) == len(openTag) {
				f.pending = f.pending[:0]
				f.state = stateInside
			}
		case stateInside:
			if c == closeTag[0] {
				f.pending = append(f.pending[:0], c)
				f.state = statePossiblyLeaving
			}
			// else: stays buffered inside the action block, never emitted.
		case statePossiblyLeaving:
			f.pending = append(f.pending, c)
			if !matchesPrefix(f.pending, closeTag) {
				// False alarm inside the block; keep suppressing, but
				// rescan this byte in case it starts the real close tag.
				f.pending = f.pending[:0]
				f.state = stateInside
				i--
			} else if len(f.pending) == len(closeTag) {
				f.pending = f.pending[:0]
				f.state = stateOutside
			}
		}
	}

	if len(out) > 0 {
		f.visible = append(f.visible, out...)
		f.any = true
	}
	return string(out)
}

// Full returns the entire raw text observed so far, action markup
// included, for the final single-pass parse once streaming ends.
func (f *StreamFilter) Full() string { return string(f.full) }

// AnyVisible reports whether any non-action byte has been emitted yet —
// used to decide whether to suppress an empty "Bailu: " prefix when the
// whole response turns out to be action-only.
func (f *StreamFilter) AnyVisible() bool { return f.any }

func matchesPrefix(pending []byte, tag string) bool {
	if len(pending) > len(tag) {
		return false
	}
	return tag[:len(pending)] == string(pending)
}
