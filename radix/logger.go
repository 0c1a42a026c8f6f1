package radix

// logger is the minimal diagnostic sink the tree and its suffix-tree
// caller need. internal/xlog.Logger satisfies this structurally; a
// caller using the tree standalone isn't forced to import it.
type logger interface {
	Debugw(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debugw(string, ...any) {}
func (noopLogger) Warnw(string, ...any)  {}
func (noopLogger) Errorw(string, ...any) {}
