// File: internal/browser/options.go
package browser

import (
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/extractor-cli/internal/config"
)

// allocatorFlag is one command line switch handed to Chrome.
type allocatorFlag struct {
	name  string
	value any
}

// baseFlags are always applied. We set them explicitly instead of relying on
// chromedp.DefaultExecAllocatorOptions so the headless switch stays optional.
var baseFlags = []allocatorFlag{
	{"no-sandbox", true},
	{"disable-gpu", true},
	{"no-first-run", true},
	{"no-default-browser-check", true},
	{"disable-extensions", true},
	{"disable-dev-shm-usage", true},
	{"enable-automation", true},
}

// allocatorFlags resolves the switches for cfg. Later entries win, so user
// args can override the base set.
func allocatorFlags(cfg config.BrowserConfig) []allocatorFlag {
	flags := append([]allocatorFlag(nil), baseFlags...)
	if cfg.Headless {
		flags = append(flags, allocatorFlag{"headless", true}, allocatorFlag{"hide-scrollbars", true}, allocatorFlag{"mute-audio", true})
	}
	for _, arg := range cfg.Args {
		arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
		if arg == "" {
			continue
		}
		// key=value switches (e.g. --user-agent=...) keep their value.
		if key, value, found := strings.Cut(arg, "="); found {
			flags = append(flags, allocatorFlag{key, value})
			continue
		}
		flags = append(flags, allocatorFlag{arg, true})
	}
	return flags
}

// DefaultAllocatorOptions builds the exec allocator options for cfg.
func DefaultAllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	flags := allocatorFlags(cfg)
	opts := make([]chromedp.ExecAllocatorOption, 0, len(flags))
	for _, f := range flags {
		opts = append(opts, chromedp.Flag(f.name, f.value))
	}
	return opts
}
