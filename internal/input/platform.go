package input

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
)

// newPlatformSender picks the native delivery mechanism for the host.
// Every mechanism is a shell-out to a tool the platform ships or
// commonly installs; none of them require code inside the game process.
func newPlatformSender() (platformSender, error) {
	switch runtime.GOOS {
	case "linux":
		path, err := exec.LookPath("xdotool")
		if err != nil {
			return nil, fmt.Errorf("input: xdotool not found on PATH: %w", err)
		}
		return &xdotoolSender{path: path}, nil
	case "darwin":
		return &osascriptSender{path: "/usr/bin/osascript"}, nil
	case "windows":
		return &sendKeysSender{path: "powershell"}, nil
	default:
		return nil, fmt.Errorf("input: no key delivery mechanism for %s", runtime.GOOS)
	}
}

// runCommand executes one shell-out and folds a non-zero exit plus its
// stderr into the returned error.
func runCommand(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s failed: %v (stderr: %s)", path, err, msg)
		}
		return fmt.Errorf("%s failed: %w", path, err)
	}
	return nil
}

// xdotoolSender delivers keys on X11 via xdotool's window search.
type xdotoolSender struct {
	path string
}

var xdotoolKeys = map[Key]string{
	KeyUp:      "Up",
	KeyDown:    "Down",
	KeyLeft:    "Left",
	KeyRight:   "Right",
	KeyConfirm: "Return",
	KeyCancel:  "Escape",
	KeyPrimary: "space",
}

func (s *xdotoolSender) deliver(q windowQuery, key Key) error {
	keysym, ok := xdotoolKeys[key]
	if !ok {
		if key.named() || len(key) != 1 {
			return fmt.Errorf("input: no xdotool keysym for %q", key)
		}
		keysym = string(key)
	}

	pattern := regexp.QuoteMeta(q.title)
	if q.exact {
		pattern = "^" + pattern + "$"
	}

	return runCommand(s.path,
		"search", "--name", pattern,
		"key", "--clearmodifiers", "--window", "%1", keysym)
}

// osascriptSender delivers keys on macOS through System Events.
type osascriptSender struct {
	path string
}

// macOS key codes for the non-character keys.
var osascriptKeyCodes = map[Key]int{
	KeyUp:      126,
	KeyDown:    125,
	KeyLeft:    123,
	KeyRight:   124,
	KeyConfirm: 36,
	KeyCancel:  53,
	KeyPrimary: 49,
}

func (s *osascriptSender) deliver(q windowQuery, key Key) error {
	var press string
	if code, ok := osascriptKeyCodes[key]; ok {
		press = fmt.Sprintf("key code %d", code)
	} else if !key.named() && len(key) == 1 {
		press = fmt.Sprintf("keystroke %q", string(key))
	} else {
		return fmt.Errorf("input: no macOS key code for %q", key)
	}

	// Exact matching degrades to "contains" here: AppleScript's window
	// title predicates are substring-based in practice, and the pid
	// token is unique enough on its own.
	script := fmt.Sprintf(
		`tell application "System Events"
	set procs to (every process whose name of windows contains %q)
	if procs is {} then error "no window matching title"
	set frontmost of item 1 of procs to true
	%s
end tell`, q.title, press)

	return runCommand(s.path, "-e", script)
}

// sendKeysSender delivers keys on Windows via WScript.Shell.
type sendKeysSender struct {
	path string
}

var sendKeysNames = map[Key]string{
	KeyUp:      "{UP}",
	KeyDown:    "{DOWN}",
	KeyLeft:    "{LEFT}",
	KeyRight:   "{RIGHT}",
	KeyConfirm: "{ENTER}",
	KeyCancel:  "{ESC}",
	KeyPrimary: " ",
}

func (s *sendKeysSender) deliver(q windowQuery, key Key) error {
	seq, ok := sendKeysNames[key]
	if !ok {
		if key.named() || len(key) != 1 {
			return fmt.Errorf("input: no SendKeys sequence for %q", key)
		}
		seq = string(key)
	}

	// AppActivate matches titles by prefix or full name; exact and
	// fuzzy queries use the same call, the token just narrows it.
	script := fmt.Sprintf(
		`$sh = New-Object -ComObject WScript.Shell; `+
			`if (-not $sh.AppActivate(%q)) { exit 1 }; `+
			`Start-Sleep -Milliseconds 10; `+
			`$sh.SendKeys(%q)`, q.title, seq)

	return runCommand(s.path, "-NoProfile", "-Command", script)
}
