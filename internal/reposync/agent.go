// Package reposync publishes the output directory to a git remote.
package reposync

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// Defaults for the push target.
const (
	DefaultRemote = "origin"
	DefaultBranch = "main"
)

// CommitLayout formats the timestamp embedded in commit messages.
const CommitLayout = "2006-01-02 15:04:05"

// Status lines written by Agent.Run.
const (
	StatusSuccess = "> REPO_STATUS: GITHUB_PUSH_SUCCESS"
	statusPrefix  = "> REPO_STATUS: ERROR"
)

// Client is the version-control capability the agent drives.
type Client interface {
	Stage() error
	Commit(message string) error
	Push(remote, branch string) error
}

// Step names a stage of the sync sequence.
type Step string

const (
	StepStage  Step = "stage"
	StepCommit Step = "commit"
	StepPush   Step = "push"
	StepDone   Step = "done"
)

// Result describes how far a sync got. Err is nil only when Step is StepDone.
type Result struct {
	Step    Step
	Message string
	Err     error
}

// OK reports whether every step succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Agent stages, commits and pushes in one pass. The first failing step ends
// the run; earlier steps are not undone and nothing is retried.
type Agent struct {
	Client Client
	Remote string
	Branch string
	Out    io.Writer
	Now    func() time.Time

	log zerolog.Logger
}

// NewAgent returns an Agent pushing to origin/main and reporting to stdout.
func NewAgent(client Client, logger zerolog.Logger) *Agent {
	return &Agent{
		Client: client,
		Remote: DefaultRemote,
		Branch: DefaultBranch,
		Out:    os.Stdout,
		Now:    time.Now,
		log:    logger,
	}
}

// Run performs the sync and writes a single status line to a.Out. Failures
// are reported, not returned; the Result is informational.
func (a *Agent) Run() Result {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	res := Result{Message: "DATA_SYNC: " + now().Format(CommitLayout)}

	res.Step, res.Err = a.sync(res.Message)
	a.report(res)
	return res
}

func (a *Agent) sync(message string) (Step, error) {
	if err := a.Client.Stage(); err != nil {
		return StepStage, err
	}
	if err := a.Client.Commit(message); err != nil {
		return StepCommit, err
	}
	if err := a.Client.Push(a.remote(), a.branch()); err != nil {
		return StepPush, err
	}
	return StepDone, nil
}

func (a *Agent) report(res Result) {
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	if res.OK() {
		color.New(color.FgGreen, color.Bold).Fprintln(out, StatusSuccess)
		a.log.Info().
			Str("remote", a.remote()).
			Str("branch", a.branch()).
			Str("message", res.Message).
			Msg("repository synced")
		return
	}
	color.New(color.FgRed, color.Bold).Fprintln(out, fmt.Sprintf("%s (%s)", statusPrefix, res.Err))
	a.log.Error().
		Err(res.Err).
		Str("step", string(res.Step)).
		Str("remote", a.remote()).
		Str("branch", a.branch()).
		Msg("repository sync failed")
}

func (a *Agent) remote() string {
	if a.Remote == "" {
		return DefaultRemote
	}
	return a.Remote
}

func (a *Agent) branch() string {
	if a.Branch == "" {
		return DefaultBranch
	}
	return a.Branch
}
