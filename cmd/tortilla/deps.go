package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/loganlinn/tortilla"
)

// Coordinate identifies a module dependency of the classes being wrapped.
type Coordinate struct {
	Module  string
	Version string
}

func (c Coordinate) String() string {
	if c.Version == "" {
		return c.Module
	}
	return c.Module + "@" + c.Version
}

// ParseCoordinate accepts three spellings of a dependency coordinate:
//
//	[module "version"]
//	module:version
//	module@version
//
// The version may be omitted, in which case the latest version is resolved.
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Coordinate{}, tortilla.NewError(tortilla.CodeDependencyResolution, "empty dependency coordinate")
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := strings.TrimSpace(s[1 : len(s)-1])
		fields := strings.Fields(inner)
		switch len(fields) {
		case 1:
			return Coordinate{Module: fields[0]}, nil
		case 2:
			return Coordinate{Module: fields[0], Version: strings.Trim(fields[1], `"`)}, nil
		default:
			return Coordinate{}, tortilla.Errorf(tortilla.CodeDependencyResolution,
				"malformed dependency coordinate %q", s)
		}
	}

	if i := strings.LastIndex(s, "@"); i > 0 {
		return Coordinate{Module: s[:i], Version: s[i+1:]}, nil
	}
	// A colon after the last slash separates module from version. Colons
	// inside the host part (ports) are left alone.
	if i := strings.LastIndex(s, ":"); i > strings.LastIndex(s, "/") {
		return Coordinate{Module: s[:i], Version: s[i+1:]}, nil
	}
	return Coordinate{Module: s}, nil
}

// Resolver fetches dependency coordinates into a throwaway module so source
// class resolution can load packages from them.
type Resolver struct {
	dir string
}

// NewResolver creates a scratch module in a temporary directory.
func NewResolver() (*Resolver, error) {
	dir, err := os.MkdirTemp("", "tortilla-deps-*")
	if err != nil {
		return nil, tortilla.WrapError(tortilla.CodeDependencyResolution, err, "creating scratch module")
	}
	gomod := "module tortilla.scratch\n\ngo 1.23\n"
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0644); err != nil {
		os.RemoveAll(dir)
		return nil, tortilla.WrapError(tortilla.CodeDependencyResolution, err, "writing scratch go.mod")
	}
	return &Resolver{dir: dir}, nil
}

// Dir returns the scratch module directory. Pass it as the load directory
// when resolving classes declared in fetched dependencies.
func (r *Resolver) Dir() string {
	return r.dir
}

// Add fetches one coordinate into the scratch module.
func (r *Resolver) Add(c Coordinate) error {
	cmd := exec.Command("go", "get", c.String())
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), "GOWORK=off")
	if out, err := cmd.CombinedOutput(); err != nil {
		return tortilla.NewError(tortilla.CodeDependencyResolution,
			fmt.Sprintf("fetching %s: %v", c, err)).
			WithDetail("output", strings.TrimSpace(string(out)))
	}
	return nil
}

// Close removes the scratch module.
func (r *Resolver) Close() error {
	return os.RemoveAll(r.dir)
}
