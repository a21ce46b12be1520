package main

import (
	"testing"

	"github.com/alecthomas/kong"
)

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli,
		kong.Name("tortilla"),
		kong.Vars{"version": "test"},
	)
	if err != nil {
		t.Fatalf("building parser: %v", err)
	}
	return parser
}

func TestCLIDefaults(t *testing.T) {
	cli := &CLI{}
	if _, err := newParser(t, cli).Parse([]string{"-c", "bytes.Buffer"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cli.Metadata || !cli.Coerce {
		t.Error("expected metadata and coercion on by default")
	}
	if cli.Instrument {
		t.Error("expected instrumentation off by default")
	}
	if cli.Out != "." || cli.Width != 100 || cli.Package != "wrappers" {
		t.Errorf("unexpected defaults: out=%q width=%d package=%q", cli.Out, cli.Width, cli.Package)
	}
}

func TestCLINegatableFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(*CLI) bool
	}{
		{"instrument on", []string{"-c", "bytes.Buffer", "--instrument"}, func(c *CLI) bool { return c.Instrument }},
		{"instrument off", []string{"-c", "bytes.Buffer", "--instrument", "--no-instrument"}, func(c *CLI) bool { return !c.Instrument }},
		{"metadata off", []string{"-c", "bytes.Buffer", "--no-metadata"}, func(c *CLI) bool { return !c.Metadata }},
		{"coerce off", []string{"-c", "bytes.Buffer", "--no-coerce"}, func(c *CLI) bool { return !c.Coerce }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := &CLI{}
			if _, err := newParser(t, cli).Parse(tt.args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.want(cli) {
				t.Errorf("flags %v left unexpected state", tt.args)
			}
		})
	}
}

func TestCLIOutFlag(t *testing.T) {
	cli := &CLI{}
	if _, err := newParser(t, cli).Parse([]string{"-c", "bytes.Buffer", "-o", "gen"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cli.Out != "gen" {
		t.Errorf("expected out directory gen, got %q", cli.Out)
	}
}

func TestCLIRejectsPositionalArgs(t *testing.T) {
	cli := &CLI{}
	if _, err := newParser(t, cli).Parse([]string{"-c", "bytes.Buffer", "gen"}); err == nil {
		t.Fatal("expected an error for a positional argument")
	}
}

func TestCLIRequiresClass(t *testing.T) {
	if _, err := newParser(t, &CLI{}).Parse(nil); err == nil {
		t.Fatal("expected an error when no class is supplied")
	}
}
