// Package geminisdk provides a Go SDK for the Gemini headless CLI.
//
// The SDK drives the gemini binary as a subprocess: it builds the
// invocation, feeds context over stdin from a background goroutine, and
// consumes the output either as one buffered result or as a live stream of
// typed NDJSON events.
//
// # Basic Usage
//
// For a plain text answer, use Text:
//
//	ctx := context.Background()
//	answer, err := geminisdk.Text(ctx, "What is the speed of light?",
//	    geminisdk.WithModel("gemini-2.5-flash"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(answer)
//
// # Structured Responses
//
// JSON returns the response together with usage statistics:
//
//	resp, err := geminisdk.JSON(ctx, "Check this code for concurrency bugs",
//	    geminisdk.WithFile("main.go"),
//	    geminisdk.WithYolo(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Response)
//
// # Streaming
//
// Stream yields events incrementally as the CLI produces them:
//
//	for evt, err := range geminisdk.Stream(ctx, "Tell me a short story") {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if msg, ok := evt.(*geminisdk.MessageEvent); ok && msg.IsDelta() {
//	        fmt.Print(msg.Content)
//	    }
//	}
//
// # Logging
//
// By default the SDK is silent. Use WithLogger for operation tracking:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	answer, err := geminisdk.Text(ctx, "Hello", geminisdk.WithLogger(logger))
//
// # Error Handling
//
// Every execution call returns one of four classified error kinds:
//
//	_, err := geminisdk.JSON(ctx, prompt)
//	if err != nil {
//	    if launchErr, ok := errors.AsType[*geminisdk.LaunchError](err); ok {
//	        log.Fatalf("gemini CLI not available: %v", launchErr)
//	    }
//	    if runtimeErr, ok := errors.AsType[*geminisdk.RuntimeError](err); ok {
//	        log.Fatalf("CLI failed with exit code %d: %s", runtimeErr.ExitCode, runtimeErr.Stderr)
//	    }
//	    log.Fatal(err)
//	}
//
// # Requirements
//
// The SDK requires the gemini CLI to be installed and available in the
// system PATH. A custom location can be set with WithBinPath.
package geminisdk
