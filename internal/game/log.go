package game

// MaxLogLines caps the display log; the oldest lines go first.
const MaxLogLines = 200

// Log is the append-only display buffer shown by the UI.
type Log struct {
	lines []string
	max   int
}

// NewLog returns a log holding at most max lines (MaxLogLines if max <= 0).
func NewLog(max int) *Log {
	if max <= 0 {
		max = MaxLogLines
	}
	return &Log{max: max}
}

func (l *Log) Append(lines ...string) {
	l.lines = append(l.lines, lines...)
	if over := len(l.lines) - l.max; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
}

func (l *Log) Clear() {
	l.lines = l.lines[:0]
}

func (l *Log) Len() int {
	return len(l.lines)
}

// Lines returns a copy, oldest first.
func (l *Log) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
