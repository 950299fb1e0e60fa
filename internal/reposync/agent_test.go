package reposync

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records calls and fails on the configured step.
type fakeClient struct {
	failOn Step
	calls  []string
}

func (f *fakeClient) step(s Step, call string) error {
	f.calls = append(f.calls, call)
	if f.failOn == s {
		return errors.New(string(s) + " exploded")
	}
	return nil
}

func (f *fakeClient) Stage() error { return f.step(StepStage, "stage") }

func (f *fakeClient) Commit(message string) error {
	return f.step(StepCommit, "commit "+message)
}

func (f *fakeClient) Push(remote, branch string) error {
	return f.step(StepPush, "push "+remote+" "+branch)
}

func newTestAgent(c Client) (*Agent, *bytes.Buffer) {
	var out bytes.Buffer
	a := NewAgent(c, zerolog.Nop())
	a.Out = &out
	a.Now = func() time.Time { return time.Date(2026, 2, 19, 23, 45, 12, 0, time.Local) }
	return a, &out
}

func TestAgentSuccess(t *testing.T) {
	c := &fakeClient{}
	a, out := newTestAgent(c)

	res := a.Run()
	require.True(t, res.OK())
	assert.Equal(t, StepDone, res.Step)
	assert.Equal(t, "DATA_SYNC: 2026-02-19 23:45:12", res.Message)
	assert.Equal(t, []string{
		"stage",
		"commit DATA_SYNC: 2026-02-19 23:45:12",
		"push origin main",
	}, c.calls)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], StatusSuccess)
}

func TestAgentStopsAtFirstFailure(t *testing.T) {
	cases := []struct {
		failOn    Step
		wantCalls int
	}{
		{StepStage, 1},
		{StepCommit, 2},
		{StepPush, 3},
	}
	for _, tc := range cases {
		t.Run(string(tc.failOn), func(t *testing.T) {
			c := &fakeClient{failOn: tc.failOn}
			a, out := newTestAgent(c)

			res := a.Run()
			assert.False(t, res.OK())
			assert.Equal(t, tc.failOn, res.Step)
			assert.Len(t, c.calls, tc.wantCalls, "no retry and no further steps")

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			require.Len(t, lines, 1)
			assert.Contains(t, lines[0], "> REPO_STATUS: ERROR (")
			assert.Contains(t, lines[0], string(tc.failOn)+" exploded")
			assert.NotContains(t, out.String(), StatusSuccess)
		})
	}
}

func TestAgentCustomTarget(t *testing.T) {
	c := &fakeClient{}
	a, _ := newTestAgent(c)
	a.Remote = "backup"
	a.Branch = "gh-pages"

	require.True(t, a.Run().OK())
	assert.Equal(t, "push backup gh-pages", c.calls[2])
}

func TestAgentEmptyTargetFallsBack(t *testing.T) {
	c := &fakeClient{}
	a, _ := newTestAgent(c)
	a.Remote = ""
	a.Branch = ""

	require.True(t, a.Run().OK())
	assert.Equal(t, "push origin main", c.calls[2])
}
