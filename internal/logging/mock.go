package logging

import "sync"

// Entry is one captured log call.
type Entry struct {
	Level  string
	Msg    string
	Fields []Field
}

// Mock is an in-memory Logger for tests. It records every call and is safe
// for concurrent use.
type Mock struct {
	mu      sync.Mutex
	Entries []Entry
	bound   []Field
}

// NewMock creates an empty mock logger.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) record(level, msg string, fields []Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := append(append([]Field(nil), m.bound...), fields...)
	m.Entries = append(m.Entries, Entry{Level: level, Msg: msg, Fields: all})
}

func (m *Mock) Debug(msg string, fields ...Field) { m.record("debug", msg, fields) }
func (m *Mock) Info(msg string, fields ...Field)  { m.record("info", msg, fields) }
func (m *Mock) Warn(msg string, fields ...Field)  { m.record("warn", msg, fields) }
func (m *Mock) Error(msg string, fields ...Field) { m.record("error", msg, fields) }

// WithField returns a derived logger that records into this mock with the
// field attached.
func (m *Mock) WithField(key string, value any) Logger {
	bound := append(append([]Field(nil), m.bound...), Field{Key: key, Value: value})
	return &boundMock{parent: m, bound: bound}
}

// boundMock forwards to the parent mock with extra fields attached.
type boundMock struct {
	parent *Mock
	bound  []Field
}

func (b *boundMock) record(level, msg string, fields []Field) {
	b.parent.record(level, msg, append(append([]Field(nil), b.bound...), fields...))
}

func (b *boundMock) Debug(msg string, fields ...Field) { b.record("debug", msg, fields) }
func (b *boundMock) Info(msg string, fields ...Field)  { b.record("info", msg, fields) }
func (b *boundMock) Warn(msg string, fields ...Field)  { b.record("warn", msg, fields) }
func (b *boundMock) Error(msg string, fields ...Field) { b.record("error", msg, fields) }

func (b *boundMock) WithField(key string, value any) Logger {
	return &boundMock{parent: b.parent, bound: append(append([]Field(nil), b.bound...), Field{Key: key, Value: value})}
}

// Messages returns the captured messages at the given level, in order.
func (m *Mock) Messages(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e.Msg)
		}
	}
	return out
}
