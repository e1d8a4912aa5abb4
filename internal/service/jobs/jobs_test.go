package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeCompleter struct {
	calls int
	count int
	err   error
}

func (c *fakeCompleter) CompleteElapsed(_ context.Context) (int, error) {
	c.calls++
	return c.count, c.err
}

func TestRunner_StartRejectsInvalidSpec(t *testing.T) {
	runner := NewRunner(&fakeCompleter{}, nopLogger{})

	err := runner.Start("not a cron spec")
	assert.Error(t, err)
}

func TestRunner_StartAcceptsDescriptor(t *testing.T) {
	runner := NewRunner(&fakeCompleter{}, nopLogger{})

	err := runner.Start("@every 5m")
	assert.NoError(t, err)

	runner.Stop()
}

func TestRunner_CompleteElapsedInvokesService(t *testing.T) {
	completer := &fakeCompleter{count: 3}
	runner := NewRunner(completer, nopLogger{})

	runner.completeElapsed()
	assert.Equal(t, 1, completer.calls)

	completer.err = errors.New("db down")
	runner.completeElapsed()
	assert.Equal(t, 2, completer.calls)
}
