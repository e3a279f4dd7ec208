package geminisdk

import (
	"context"
	"iter"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/geminioxide/gemini-cli-sdk-go/internal/config"
	"github.com/geminioxide/gemini-cli-sdk-go/internal/event"
	"github.com/geminioxide/gemini-cli-sdk-go/internal/history"
	"github.com/geminioxide/gemini-cli-sdk-go/internal/subprocess"
)

// Stream executes the request and returns a lazy sequence of typed events.
//
// Events are yielded in exactly the order their lines were received from the
// CLI; blank lines are skipped. The sequence is finite, forward-only, and
// non-restartable: it ends when the CLI closes stdout, or with a
// JSONDecodeError item when a line fails to decode (including a line with an
// unrecognized event type). No resynchronization is attempted after a
// malformed line.
//
// The stdin feeder runs concurrently while the sequence is consumed. The
// sequence never inspects the process exit status - callers who need
// exit-level errors should use Text or JSON instead. Breaking out of the
// loop early releases the output pipe but leaves the process and the feeder
// to run to natural completion; cancelling ctx terminates the process.
//
// Example usage:
//
//	for evt, err := range geminisdk.Stream(ctx, "Tell me a story") {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    switch e := evt.(type) {
//	    case *geminisdk.MessageEvent:
//	        fmt.Print(e.Content)
//	    case *geminisdk.ResultEvent:
//	        fmt.Println("\ndone:", e.Status)
//	    }
//	}
func Stream(ctx context.Context, prompt string, opts ...Option) iter.Seq2[StreamEvent, error] {
	return func(yield func(StreamEvent, error) bool) {
		options := applyOptions(opts)
		requestID := ulid.Make().String()
		log := requestLogger(options, "stream_query", requestID)

		log.Debug("Starting streaming query execution")

		start := time.Now()

		var streamErr error

		defer func() {
			recordHistory(log, options, history.Record{
				Timestamp:  start.UTC(),
				RequestID:  requestID,
				Prompt:     prompt,
				Model:      options.Model,
				Mode:       "stream",
				Success:    streamErr == nil,
				ErrorKind:  errorKind(streamErr),
				DurationMS: time.Since(start).Milliseconds(),
			})
		}()

		transport := subprocess.NewCLITransport(log, prompt, config.FormatStreamJSON, options)

		if err := transport.Start(ctx); err != nil {
			log.Error("Failed to start gemini CLI", "error", err)

			streamErr = err

			yield(nil, err)

			return
		}

		go transport.FeedInput()

		// Release the stdout handle on every exit path, including early
		// abandonment by the consumer.
		defer transport.ReleaseOutput()

		lines, errs := transport.ReadEvents(ctx)

		for {
			select {
			case line, ok := <-lines:
				if !ok {
					// Channel closed: normal end of stream unless the
					// reader reported a failure.
					if err := <-errs; err != nil {
						log.Error("Stream ended with error", "error", err)

						streamErr = err

						yield(nil, err)
					}

					return
				}

				evt, err := event.Parse(log, line)
				if err != nil {
					// A malformed line ends the sequence; no skipping.
					streamErr = err

					yield(nil, err)

					return
				}

				if !yield(evt, nil) {
					log.Debug("Consumer stopped iteration early")

					return
				}

			case <-ctx.Done():
				log.Debug("Context cancelled during stream")

				streamErr = ctx.Err()

				yield(nil, ctx.Err())

				return
			}
		}
	}
}
