package reposync

import (
	"errors"
	"os/exec"
	"strings"
)

// GitRunner executes a git command and returns its output.
// This abstraction allows mocking in tests.
type GitRunner func(workDir string, args ...string) (string, error)

// CommandError reports a git invocation that could not be started or exited
// non-zero.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := "git " + strings.Join(e.Args, " ") + ": " + e.Err.Error()
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// GitClient stages, commits and pushes through the git command line.
type GitClient struct {
	WorkDir string
	Runner  GitRunner // if nil, uses the real git subprocess
}

// defaultGitRunner runs git as a real subprocess. Stderr is captured into the
// returned *exec.ExitError.
func defaultGitRunner(workDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	return string(out), err
}

// Stage runs `git add .`.
func (g *GitClient) Stage() error {
	return g.run("add", ".")
}

// Commit runs `git commit -m message`.
func (g *GitClient) Commit(message string) error {
	return g.run("commit", "-m", message)
}

// Push runs `git push remote branch`.
func (g *GitClient) Push(remote, branch string) error {
	return g.run("push", remote, branch)
}

func (g *GitClient) run(args ...string) error {
	runner := g.Runner
	if runner == nil {
		runner = defaultGitRunner
	}
	if _, err := runner(g.WorkDir, args...); err != nil {
		cmdErr := &CommandError{Args: args, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.Stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return cmdErr
	}
	return nil
}
