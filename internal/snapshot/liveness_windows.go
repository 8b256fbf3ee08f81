//go:build windows

package snapshot

import "golang.org/x/sys/windows"

// ProcessAlive reports whether a process with the given pid exists.
// The state file self-reports a pid, but the file may be stale, so
// liveness is always confirmed against the OS process table.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == 259 // STILL_ACTIVE
}
