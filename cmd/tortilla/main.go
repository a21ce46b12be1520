package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/loganlinn/tortilla"
	"github.com/loganlinn/tortilla/wrapgen"
	"github.com/loganlinn/tortilla/wrapgen/provider"
	"github.com/loganlinn/tortilla/wrapgen/sink"
)

type CLI struct {
	Class      []string `short:"c" required:"" help:"Class to wrap, as import/path.TypeName. Repeatable."`
	Members    bool     `short:"m" help:"Print member descriptors instead of generating source."`
	Include    []string `short:"i" help:"Regexp a member descriptor must match to be wrapped. Repeatable."`
	Exclude    []string `short:"x" help:"Regexp excluding matching member descriptors. Repeatable."`
	Prefix     string   `help:"Identifier prefix for generated routines."`
	Metadata   bool     `default:"true" negatable:"" help:"Emit signature documentation on generated routines."`
	Instrument bool     `negatable:"" help:"Wrap generated routines with call logging."`
	Coerce     bool     `default:"true" negatable:"" help:"Apply numeric coercion before type guards."`
	Width      int      `short:"w" default:"100" help:"Column limit for emitted source."`
	Dep        []string `short:"d" help:"Module dependency to fetch before resolving classes. Repeatable."`
	Dir        string   `default:"." help:"Module directory classes are resolved in."`
	Package    string   `default:"wrappers" help:"Package name for generated source."`
	Out        string   `short:"o" default:"." help:"Output directory for generated files."`
	Verbose    bool     `short:"v" help:"Enable debug logging."`

	Version kong.VersionFlag `help:"Print version and exit."`
}

func (c *CLI) Run(logger *slog.Logger) error {
	dir := c.Dir
	if len(c.Dep) > 0 {
		r, err := NewResolver()
		if err != nil {
			return err
		}
		defer r.Close()
		for _, raw := range c.Dep {
			coord, err := ParseCoordinate(raw)
			if err != nil {
				return err
			}
			logger.Debug("fetching dependency", "coordinate", coord.String())
			if err := r.Add(coord); err != nil {
				return err
			}
		}
		dir = r.Dir()
	}

	// An unresolvable class fails the run but does not stop generation of
	// the remaining classes.
	out := sink.NewFilesystemSink(c.Out)
	var failed []string
	for _, pattern := range c.Class {
		if err := c.runClass(pattern, dir, out, logger); err != nil {
			logger.Error("class failed", "class", pattern, "error", err)
			failed = append(failed, pattern)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d classes failed: %s",
			len(failed), len(c.Class), strings.Join(failed, ", "))
	}
	return nil
}

func (c *CLI) runClass(pattern, dir string, out sink.OutputSink, logger *slog.Logger) error {
	class, err := provider.ResolveSource(pattern, dir)
	if err != nil {
		return err
	}

	g := wrapgen.FromClass(class).
		WithPrefix(c.Prefix).
		WithInclude(c.Include...).
		WithExclude(c.Exclude...).
		WithPackage(c.Package).
		WithWidth(c.Width)
	if c.Coerce {
		g = g.WithCoercion(tortilla.NumericCoercion)
	}
	if !c.Metadata {
		g = g.WithoutMetadata()
	}
	if c.Instrument {
		g = g.WithInstrument(logger)
	}

	if c.Members {
		descs, err := g.Descriptors()
		if err != nil {
			return err
		}
		for d := range descs {
			fmt.Println(d)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := g.EmitGo(&buf); err != nil {
		return err
	}
	path := outputName(class.ClassName())
	if err := out.WriteFile(context.Background(), path, buf.Bytes()); err != nil {
		return err
	}
	logger.Info("generated", "class", class.ClassName(), "path", path, "bytes", buf.Len())
	return nil
}

// outputName maps a class name like "bytes.Buffer" to a file name like
// "bytes-buffer.go".
func outputName(class string) string {
	flat := strings.NewReplacer(".", "-", "/", "-", "*", "").Replace(class)
	return tortilla.NormalizeName(flat) + ".go"
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("tortilla"),
		kong.Description("Generate overload-dispatch wrappers for Go classes."),
		kong.UsageOnError(),
		kong.Vars{"version": Version()},
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
