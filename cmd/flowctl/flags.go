package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type passthroughKey struct{}

func withPassthroughArgs(ctx context.Context, args []string) context.Context {
	return context.WithValue(ctx, passthroughKey{}, args)
}

// passthroughArgs returns the arguments of a command with flag parsing
// disabled, minus the flags it declares.
func passthroughArgs(cmd *cobra.Command) []string {
	args, _ := cmd.Context().Value(passthroughKey{}).([]string)
	return args
}

// parseKnownFlags parses the flags declared on cmd out of args and returns
// the remaining tokens in order. It serves commands that take free-form
// --key value arguments, where cobra flag parsing is disabled. The command's
// own flags are recognized anywhere; the persistent flags of its parents only
// before the first positional argument, so later --env or --server tokens stay
// free-form keys. An unknown --key always takes the next token as its value.
// Everything after "--" is left untouched.
func parseKnownFlags(cmd *cobra.Command, args []string) ([]string, error) {
	local := cmd.LocalNonPersistentFlags()
	// InheritedFlags also merges the persistent flags of the parents into Flags.
	inherited := cmd.InheritedFlags()

	var known, rest []string
	positional := false
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			rest = append(rest, args[i+1:]...)
			break
		}
		f, inline := lookupFlag(local, tok)
		if f == nil && !positional {
			f, inline = lookupFlag(inherited, tok)
		}
		if f == nil {
			rest = append(rest, tok)
			switch {
			case !strings.HasPrefix(tok, "-"):
				positional = true
			case i+1 < len(args):
				i++
				rest = append(rest, args[i])
			}
			continue
		}
		known = append(known, tok)
		if !inline && f.NoOptDefVal == "" && i+1 < len(args) {
			i++
			known = append(known, args[i])
		}
	}
	if err := cmd.Flags().Parse(known); err != nil {
		return nil, err
	}
	return rest, nil
}

// lookupFlag finds the flag named by tok, a --name, --name=value, -x or
// -x=value token. inline reports whether tok carries its value.
func lookupFlag(fs *pflag.FlagSet, tok string) (f *pflag.Flag, inline bool) {
	switch {
	case strings.HasPrefix(tok, "--"):
		name, _, found := strings.Cut(tok[2:], "=")
		return fs.Lookup(name), found
	case strings.HasPrefix(tok, "-") && len(tok) >= 2:
		if len(tok) > 2 && tok[2] != '=' {
			return nil, false
		}
		return fs.ShorthandLookup(tok[1:2]), len(tok) > 2
	}
	return nil, false
}

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}
