package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ConfigFlag names the persistent flag pointing at a config file.
const ConfigFlag = "config"

// ConfigPath extracts --config from args without running the command tree,
// so main can load config before building the App.
func ConfigPath(args []string) string {
	fs := pflag.NewFlagSet("gantry", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String(ConfigFlag, "", "")
	_ = fs.Parse(args)
	return *path
}

// enumFlag is a pflag.Value restricted to a fixed set of string constants.
type enumFlag[T ~string] struct {
	value    *T
	allowed  []T
	typeName string
}

var _ pflag.Value = (*enumFlag[string])(nil)

func newEnumFlag[T ~string](p *T, def T, typeName string, allowed ...T) *enumFlag[T] {
	*p = def
	return &enumFlag[T]{value: p, allowed: allowed, typeName: typeName}
}

func (f *enumFlag[T]) String() string {
	if f.value == nil {
		return ""
	}
	return string(*f.value)
}

func (f *enumFlag[T]) Set(s string) error {
	v, err := parseEnum(s, f.allowed...)
	if err != nil {
		return err
	}
	*f.value = v
	return nil
}

func (f *enumFlag[T]) Type() string {
	return f.typeName
}

// complete offers the allowed values for shell completion.
func (f *enumFlag[T]) complete(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return names(f.allowed), cobra.ShellCompDirectiveNoFileComp
}

// enumVar registers an enum flag on cmd together with its completion.
func enumVar[T ~string](cmd *cobra.Command, p *T, def T, name, usage string, allowed ...T) {
	f := newEnumFlag(p, def, name, allowed...)
	cmd.Flags().Var(f, name, fmt.Sprintf("%s (%s)", usage, strings.Join(names(allowed), "|")))
	_ = cmd.RegisterFlagCompletionFunc(name, f.complete)
}

// parseEnum matches s case-insensitively against allowed.
func parseEnum[T ~string](s string, allowed ...T) (T, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, a := range allowed {
		if string(a) == want {
			return a, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q (expected %s)", s, strings.Join(names(allowed), "|"))
}

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// completionFunc is the shape of cobra's ValidArgsFunction.
type completionFunc = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)

// argEnum validates positional argument i against allowed and offers the
// values for completion at that position.
func argEnum[T ~string](i int, allowed ...T) (cobra.PositionalArgs, completionFunc) {
	validate := func(cmd *cobra.Command, args []string) error {
		if i < len(args) {
			if _, err := parseEnum(args[i], allowed...); err != nil {
				return err
			}
		}
		return nil
	}
	complete := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == i {
			return names(allowed), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return validate, complete
}
