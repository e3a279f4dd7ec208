// Command geminiq is a small front end for the SDK: it sends one prompt to
// the Gemini CLI and prints the answer in text, JSON, or streaming form.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	geminisdk "github.com/geminioxide/gemini-cli-sdk-go"
	"github.com/geminioxide/gemini-cli-sdk-go/internal/history"
)

func main() {
	ctx := context.Background()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		model       string
		binPath     string
		files       []string
		contextData string
		includeDirs []string
		yolo        bool
		debug       bool
		format      string
		historyPath string
		timeout     time.Duration
	)

	root := &cobra.Command{
		Use:   "geminiq [prompt]",
		Short: "Query the Gemini CLI from the command line",
		Long:  "geminiq sends a single prompt to the gemini CLI through the SDK and prints the response.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			opts, err := geminisdk.OptionsFromFile(configPath)
			if err != nil {
				return err
			}

			if debug {
				opts = append(opts, geminisdk.WithDebug(),
					geminisdk.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))),
					geminisdk.WithStderr(func(line string) {
						fmt.Fprintln(os.Stderr, "gemini:", line)
					}))
			}
			if model != "" {
				opts = append(opts, geminisdk.WithModel(model))
			}
			if binPath != "" {
				opts = append(opts, geminisdk.WithBinPath(binPath))
			}
			if contextData != "" {
				opts = append(opts, geminisdk.WithContext(contextData))
			}
			for _, f := range files {
				opts = append(opts, geminisdk.WithFile(f))
			}
			for _, dir := range includeDirs {
				opts = append(opts, geminisdk.WithIncludeDirectory(dir))
			}
			if yolo {
				opts = append(opts, geminisdk.WithYolo())
			}
			if historyPath != "" {
				opts = append(opts, geminisdk.WithHistoryPath(historyPath))
			}

			prompt := strings.Join(args, " ")

			switch format {
			case "text":
				return runText(ctx, prompt, opts)
			case "json":
				return runJSON(ctx, prompt, opts)
			case "stream":
				return runStream(ctx, prompt, opts)
			default:
				return fmt.Errorf("unknown format %q (want text, json, or stream)", format)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $GEMINI_SDK_CONFIG or ~/.gemini-sdk/config.yaml)")
	root.Flags().StringVarP(&model, "model", "m", "", "Model to use (e.g. gemini-2.5-pro)")
	root.Flags().StringVar(&binPath, "bin", "", "Path to the gemini binary")
	root.Flags().StringArrayVarP(&files, "file", "f", nil, "File whose contents are piped to the CLI on stdin (repeatable)")
	root.Flags().StringVar(&contextData, "context", "", "Inline context piped to the CLI on stdin before any files")
	root.Flags().StringArrayVarP(&includeDirs, "include-directory", "I", nil, "Directory the agent may read (repeatable)")
	root.Flags().BoolVar(&yolo, "yolo", false, "Auto-approve all tool calls")
	root.Flags().BoolVar(&debug, "debug", false, "Enable debug logging and echo CLI stderr")
	root.Flags().StringVar(&format, "format", "text", "Output format: text, json, or stream")
	root.Flags().StringVar(&historyPath, "history", "", "Record the request in a SQLite history database at this path")
	root.Flags().DurationVar(&timeout, "timeout", 0, "Abort the request after this duration (0 means no limit)")

	root.AddCommand(newHistoryCmd())
	return root
}

func runText(ctx context.Context, prompt string, opts []geminisdk.Option) error {
	answer, err := geminisdk.Text(ctx, prompt, opts...)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

func runJSON(ctx context.Context, prompt string, opts []geminisdk.Option) error {
	resp, err := geminisdk.JSON(ctx, prompt, opts...)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runStream(ctx context.Context, prompt string, opts []geminisdk.Option) error {
	for ev, err := range geminisdk.Stream(ctx, prompt, opts...) {
		if err != nil {
			return err
		}
		printEvent(ev)
	}
	return nil
}

func printEvent(ev geminisdk.StreamEvent) {
	switch e := ev.(type) {
	case *geminisdk.InitEvent:
		fmt.Fprintf(os.Stderr, "session %s (model %s)\n", e.SessionID, e.Model)
	case *geminisdk.MessageEvent:
		if e.IsDelta() {
			fmt.Print(e.Content)
		} else {
			fmt.Println(e.Content)
		}
	case *geminisdk.ToolUseEvent:
		fmt.Fprintf(os.Stderr, "\n[tool %s]\n", e.ToolName)
	case *geminisdk.ToolResultEvent:
		fmt.Fprintf(os.Stderr, "[tool %s: %s]\n", e.ToolID, e.Status)
	case *geminisdk.ResultEvent:
		fmt.Printf("\n(done: %s)\n", e.Status)
	case *geminisdk.ErrorEvent:
		fmt.Fprintf(os.Stderr, "stream error: %s\n", e.Message)
	}
}

func newHistoryCmd() *cobra.Command {
	var (
		historyPath string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent requests from the history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := historyPath
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				path = filepath.Join(home, ".gemini-sdk", "history.db")
			}

			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(limit)
			if err != nil {
				return err
			}

			for _, rec := range records {
				status := "ok"
				if !rec.Success {
					status = rec.ErrorKind
				}
				fmt.Printf("%s  %-6s  %-8s  %6dms  %s\n",
					rec.Timestamp.Format(time.RFC3339), rec.Mode, status, rec.DurationMS, rec.Prompt)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "Path to the history database (default ~/.gemini-sdk/history.db)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records to show")

	return cmd
}
