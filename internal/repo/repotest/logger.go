package repotest

// NopLogger satisfies logger.Interface and drops everything.
type NopLogger struct{}

func (NopLogger) Debug(interface{}, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})       {}
func (NopLogger) Warn(string, ...interface{})       {}
func (NopLogger) Error(interface{}, ...interface{}) {}
func (NopLogger) Fatal(interface{}, ...interface{}) {}
