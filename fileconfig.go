package geminisdk

import "github.com/geminioxide/gemini-cli-sdk-go/internal/config"

// OptionsFromFile loads default options from a YAML config file.
//
// An empty path resolves to $GEMINI_SDK_CONFIG, then
// ~/.gemini-sdk/config.yaml. A missing file yields no options and no error.
// The returned options are meant to be applied first, so explicit options
// given by the caller override the file's defaults:
//
//	fileOpts, err := geminisdk.OptionsFromFile("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	answer, err := geminisdk.Text(ctx, prompt, append(fileOpts, geminisdk.WithModel("gemini-2.5-pro"))...)
func OptionsFromFile(path string) ([]Option, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	var opts []Option

	if cfg.BinPath != "" {
		opts = append(opts, WithBinPath(cfg.BinPath))
	}

	if cfg.Model != "" {
		opts = append(opts, WithModel(cfg.Model))
	}

	for _, dir := range cfg.IncludeDirs {
		opts = append(opts, WithIncludeDirectory(dir))
	}

	if cfg.Yolo {
		opts = append(opts, WithYolo())
	}

	if cfg.Debug {
		opts = append(opts, WithDebug())
	}

	if cfg.HistoryPath != "" {
		opts = append(opts, WithHistoryPath(cfg.HistoryPath))
	}

	return opts, nil
}
