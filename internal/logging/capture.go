package logging

// CaptureLogger is a Logger implementation for tests. It records every
// entry in memory instead of writing anywhere.
type CaptureLogger struct {
	Entries []CapturedEntry

	pendingError error
	pendingField *Field
}

// CapturedEntry is a single log call recorded by CaptureLogger.
type CapturedEntry struct {
	Level   string
	Message string
	Fields  []Field
	Err     error
}

func (c *CaptureLogger) record(level, msg string, fields []Field) {
	all := fields
	if c.pendingField != nil {
		all = append([]Field{*c.pendingField}, fields...)
	}
	c.Entries = append(c.Entries, CapturedEntry{
		Level:   level,
		Message: msg,
		Fields:  all,
		Err:     c.pendingError,
	})
}

func (c *CaptureLogger) Debug(msg string, fields ...Field) { c.record("DEBUG", msg, fields) }
func (c *CaptureLogger) Info(msg string, fields ...Field)  { c.record("INFO", msg, fields) }
func (c *CaptureLogger) Warn(msg string, fields ...Field)  { c.record("WARN", msg, fields) }
func (c *CaptureLogger) Error(msg string, fields ...Field) { c.record("ERROR", msg, fields) }

// WithError returns a logger that attaches err to subsequent entries.
// Entries still land in the parent's buffer.
func (c *CaptureLogger) WithError(err error) Logger {
	return &forwardingLogger{parent: c, err: err, field: c.pendingField}
}

// WithField returns a logger that attaches the field to subsequent entries.
func (c *CaptureLogger) WithField(key string, value interface{}) Logger {
	f := Field{Key: key, Value: value}
	return &forwardingLogger{parent: c, err: c.pendingError, field: &f}
}

// HasEntry reports whether an entry with the given level and message was
// recorded.
func (c *CaptureLogger) HasEntry(level, message string) bool {
	for _, entry := range c.Entries {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}
	return false
}

// forwardingLogger writes into its parent's buffer with extra context
// attached.
type forwardingLogger struct {
	parent *CaptureLogger
	err    error
	field  *Field
}

func (f *forwardingLogger) record(level, msg string, fields []Field) {
	all := fields
	if f.field != nil {
		all = append([]Field{*f.field}, fields...)
	}
	f.parent.Entries = append(f.parent.Entries, CapturedEntry{
		Level:   level,
		Message: msg,
		Fields:  all,
		Err:     f.err,
	})
}

func (f *forwardingLogger) Debug(msg string, fields ...Field) { f.record("DEBUG", msg, fields) }
func (f *forwardingLogger) Info(msg string, fields ...Field)  { f.record("INFO", msg, fields) }
func (f *forwardingLogger) Warn(msg string, fields ...Field)  { f.record("WARN", msg, fields) }
func (f *forwardingLogger) Error(msg string, fields ...Field) { f.record("ERROR", msg, fields) }

func (f *forwardingLogger) WithError(err error) Logger {
	return &forwardingLogger{parent: f.parent, err: err, field: f.field}
}

func (f *forwardingLogger) WithField(key string, value interface{}) Logger {
	fld := Field{Key: key, Value: value}
	return &forwardingLogger{parent: f.parent, err: f.err, field: &fld}
}
