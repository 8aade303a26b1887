// Package flagx contains helpers for parsing a subset of the command line
// without claiming flags that belong to other components.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the arguments belonging to the flags listed in
// allowedFlags, so a flag.FlagSet can parse them without choking on flags
// registered elsewhere.
//
// Both "-f value" and "-f=value" (or the double-dash forms) are recognized.
// For the separate-argument form the following value is kept as well, unless
// it starts with a dash.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, name := range allowedFlags {
		allowed[name] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, found := strings.Cut(arg, "="); found {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			filtered = append(filtered, args[i])
		}
	}

	return filtered
}

// JsonConfigFlags returns the config file path given via -c/-config, or the
// CONFIG environment variable when no flag is present. An empty string means
// no config file was requested.
func JsonConfigFlags() string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], []string{"-c", "-config"}))

	if config == "" {
		config = os.Getenv("CONFIG")
	}

	return config
}
