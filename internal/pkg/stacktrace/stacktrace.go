// Package stacktrace condenses raw stack traces down to the frames that live
// in this repository.
package stacktrace

import "strings"

// AppFrames extracts the application's own frames from a debug.Stack dump,
// shortened to internal/-relative file:line form. Runtime and third-party
// frames are skipped so log output stays readable.
func AppFrames(stack []byte) []string {
	var frames []string
	for _, line := range strings.Split(string(stack), "\n") {
		line = strings.TrimSpace(line)

		idx := strings.Index(line, "/internal/")
		if idx < 0 || !strings.Contains(line, ".go:") {
			continue
		}

		frame := line[idx+1:]
		if cut := strings.IndexByte(frame, ' '); cut >= 0 {
			frame = frame[:cut]
		}
		frames = append(frames, frame)
	}
	return frames
}
