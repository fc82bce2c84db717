// Package schedule installs the daily fetch into the user's crontab or runs
// it from an in-process cron daemon.
package schedule

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Marker tags the crontab line this tool owns.
const Marker = "# sportspage fetch"

// Runner reads and replaces the crontab.
type Runner interface {
	Read() (string, error)
	Write(content string) error
}

// SystemCrontab drives the crontab(1) command.
type SystemCrontab struct{}

func (SystemCrontab) Read() (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("crontab", "-l")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		// crontab -l exits non-zero when the user has no crontab yet.
		if strings.Contains(strings.ToLower(stderr.String()), "no crontab") {
			return "", nil
		}
		return "", fmt.Errorf("crontab -l: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func (SystemCrontab) Write(content string) error {
	var stderr bytes.Buffer
	cmd := exec.Command("crontab", "-")
	cmd.Stdin = strings.NewReader(content)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("crontab -: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Entry returns the crontab line for command on spec.
func Entry(spec, command string) string {
	return spec + " " + command + " " + Marker
}

// Install adds the entry to the crontab. An identical entry is left alone
// and a stale one (different spec or command) is replaced. It reports
// whether the crontab changed.
func Install(r Runner, spec, command string) (bool, error) {
	current, err := r.Read()
	if err != nil {
		return false, err
	}
	entry := Entry(spec, command)

	var lines []string
	found := false
	for _, line := range splitLines(current) {
		if !strings.HasSuffix(strings.TrimSpace(line), Marker) {
			lines = append(lines, line)
			continue
		}
		if strings.TrimSpace(line) == entry && !found {
			found = true
			lines = append(lines, line)
		}
	}
	if found && len(lines) == len(splitLines(current)) {
		return false, nil
	}
	if !found {
		lines = append(lines, entry)
	}
	if err := r.Write(joinLines(lines)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes this tool's entries. It reports whether any were present.
func Remove(r Runner) (bool, error) {
	current, err := r.Read()
	if err != nil {
		return false, err
	}
	var lines []string
	removed := false
	for _, line := range splitLines(current) {
		if strings.HasSuffix(strings.TrimSpace(line), Marker) {
			removed = true
			continue
		}
		lines = append(lines, line)
	}
	if !removed {
		return false, nil
	}
	return true, r.Write(joinLines(lines))
}

// Installed returns the installed entry, if any.
func Installed(r Runner) (string, bool, error) {
	current, err := r.Read()
	if err != nil {
		return "", false, err
	}
	for _, line := range splitLines(current) {
		if strings.HasSuffix(strings.TrimSpace(line), Marker) {
			return strings.TrimSpace(line), true, nil
		}
	}
	return "", false, nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
