// Package flagx lets several loaders read their own flags from a shared
// command line without tripping over flags owned by somebody else.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags (and their values) from args.
//
// Two spellings are understood:
//
//	-c conf.json        flag and value as separate arguments
//	--config=conf.json  flag and value joined with '='
//
// A separate value is consumed only if it does not itself start with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
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
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// StringFlag returns the value of the first of names found in args, parsed
// as a string flag. Every name is an alias of the same value; the last one
// on the command line wins, as with the flag package. Unknown arguments
// are ignored and an empty string is returned when none of names is set.
func StringFlag(args []string, names ...string) string {
	var value string

	dashed := make([]string, 0, len(names))
	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, "", "")
		dashed = append(dashed, "-"+n, "--"+n)
	}

	_ = fs.Parse(FilterArgs(args, dashed))
	return value
}

// ConfigFile returns the JSON config path given with -c or -config.
func ConfigFile() string {
	return StringFlag(os.Args[1:], "c", "config")
}

// EnvFile returns the dotenv path given with -env, or ".env".
func EnvFile() string {
	if v := StringFlag(os.Args[1:], "env"); v != "" {
		return v
	}
	return ".env"
}
