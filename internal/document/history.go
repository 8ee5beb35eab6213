package document

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation turn.
type Turn struct {
	Role    Role
	Content string
	At      time.Time
}

// History is a bounded conversation log that retains the most recent turns.
type History struct {
	limit int
	turns []Turn
}

// NewHistory creates a History keeping at most limit turns. A non-positive
// limit keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Add appends a turn, dropping the oldest if the bound is exceeded.
func (h *History) Add(role Role, content string) {
	h.turns = append(h.turns, Turn{Role: role, Content: content, At: time.Now()})
	if h.limit > 0 && len(h.turns) > h.limit {
		h.turns = h.turns[len(h.turns)-h.limit:]
	}
}

// Turns returns the retained turns, oldest first. The returned slice is a
// copy and safe to hold across further Adds.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of retained turns.
func (h *History) Len() int { return len(h.turns) }
