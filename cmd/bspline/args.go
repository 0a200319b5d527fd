package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// escapeNegativeArgs lets negative numbers be passed as positional
// arguments. pflag reads "-0.5" as a cluster of short flags, so when args
// hold a negative number that is not a flag value, the flags are kept in
// front and every positional argument is moved behind a "--" terminator:
//
//	eval --order 3 -0.5 1  ->  eval --order 3 -- -0.5 1
//
// Args that already contain "--", or that no command matches, are returned
// unchanged.
func escapeNegativeArgs(root *cobra.Command, args []string) []string {
	cmd, rest, err := root.Find(args)
	if err != nil || cmd == root {
		return args
	}

	var flags, positional []string
	negative := false
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--":
			return args
		case isNegativeNumber(arg):
			positional = append(positional, arg)
			negative = true
		case len(arg) > 1 && arg[0] == '-':
			flags = append(flags, arg)
			if takesValue(cmd, arg) && i+1 < len(rest) {
				i++
				flags = append(flags, rest[i])
			}
		default:
			positional = append(positional, arg)
		}
	}
	if !negative {
		return args
	}

	escaped := strings.Fields(cmd.CommandPath())[1:]
	escaped = append(escaped, flags...)
	escaped = append(escaped, "--")
	return append(escaped, positional...)
}

func isNegativeNumber(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}

// takesValue reports whether flag arg consumes the following argument.
func takesValue(cmd *cobra.Command, arg string) bool {
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		if strings.Contains(name, "=") {
			return false
		}
		f := lookupFlag(cmd, name)
		return f != nil && f.NoOptDefVal == ""
	}

	// In a cluster such as -vn, only a value flag in last position reads
	// the next argument.
	shorts := arg[1:]
	for i := range len(shorts) {
		f := lookupShorthand(cmd, shorts[i:i+1])
		if f == nil {
			return false
		}
		if f.NoOptDefVal == "" {
			return i == len(shorts)-1
		}
	}
	return false
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.InheritedFlags().Lookup(name)
}

func lookupShorthand(cmd *cobra.Command, short string) *pflag.Flag {
	if f := cmd.Flags().ShorthandLookup(short); f != nil {
		return f
	}
	return cmd.InheritedFlags().ShorthandLookup(short)
}
