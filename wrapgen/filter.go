package wrapgen

import (
	"regexp"

	"github.com/loganlinn/tortilla"
	"github.com/loganlinn/tortilla/wrapgen/ir"
)

// compilePatterns compiles filter patterns, reporting the first invalid one
// as an InvalidFilterPattern error.
func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, tortilla.WrapError(tortilla.CodeInvalidFilterPattern, err,
				"invalid filter pattern "+p)
		}
		res = append(res, re)
	}
	return res, nil
}

func anyMatch(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// compileFilter builds the member predicate for a config: the user predicate
// first, then include/exclude regexes over the member descriptor string.
// Pattern errors surface here, before any generation.
func compileFilter(cfg *Config) (func(ir.Member) bool, error) {
	incs, err := compilePatterns(cfg.Include)
	if err != nil {
		return nil, err
	}
	excs, err := compilePatterns(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	return func(m ir.Member) bool {
		if cfg.Filter != nil && !cfg.Filter(m) {
			return false
		}
		desc := m.Descriptor()
		if len(incs) > 0 && !anyMatch(incs, desc) {
			return false
		}
		return !anyMatch(excs, desc)
	}, nil
}
