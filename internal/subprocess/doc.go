// Package subprocess manages the gemini CLI child process.
//
// It spawns the CLI with all three standard streams piped, feeds stdin from
// a dedicated goroutine, and exposes the output either fully buffered or as
// an ordered sequence of NDJSON lines. Input feeding and output draining
// always run on independent goroutines; driving both from one sequential
// path can deadlock once the payload on either side exceeds the OS pipe
// buffer.
package subprocess
