package main

import (
	"log/slog"
	"os"
)

const defaultConfigTemplate = `# mdhtml configuration
render:
  # How raw HTML embedded in Markdown is handled:
  #   sanitize - filter tags/attributes through the allow-list below (default)
  #   unsafe   - pass raw HTML through verbatim (trusted input only)
  #   escape   - emit raw HTML as literal text
  html: sanitize

  # Render soft line breaks as <br> instead of a newline.
  soft_as_hard_line_break: false

  sanitize:
    # Extra names added to the built-in allow-lists. Set replace_defaults
    # to true to use exactly these lists instead.
    replace_defaults: false
    elements: []
    attributes: []

output:
  directory: ./site
  clean: false

server:
  listen: :8080
`

func runInit(path string, force bool) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			slog.Error("Configuration file already exists (use --force to overwrite)", "path", path)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		slog.Error("Failed to write configuration file", "error", err)
		os.Exit(1)
	}
	slog.Info("Wrote configuration file", "path", path)
}
