// Package cli provides binary discovery, version probing, and command
// building for the gemini CLI.
//
// # CLI Discovery
//
// The Discoverer interface locates the gemini binary:
//
//	discoverer := cli.NewDiscoverer(&cli.Config{
//	    BinPath: "",           // Optional explicit path
//	    Logger:  slog.Default(),
//	})
//	binPath, err := discoverer.Discover(ctx)
//
// Discovery searches in the following order:
//  1. Explicit path in Config.BinPath (if provided)
//  2. System PATH
//  3. Common installation directories (/usr/local/bin, /usr/bin, ~/.local/bin)
//
// # Version Probing
//
// During discovery the CLI version is probed with `gemini --version` and
// compared against MinimumVersion. A warning is logged if the version is
// below minimum. The probe can be skipped via Config.SkipVersionCheck or the
// GEMINI_SDK_SKIP_VERSION_CHECK environment variable.
//
// # Command Building
//
// BuildArgs turns a configuration snapshot into the argument vector; the
// output format flag always comes first and the prompt is always the last
// positional argument. BuildEnvironment assembles the process environment.
package cli
