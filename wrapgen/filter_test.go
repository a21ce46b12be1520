package wrapgen

import (
	"testing"

	"github.com/loganlinn/tortilla/wrapgen/ir"
)

func TestCompileFilter(t *testing.T) {
	add := mkMember("add", ir.KindFunction, func(a, b int) int { return a + b })
	del := mkMember("delete", ir.KindFunction, func(k string) {})

	tests := []struct {
		name    string
		cfg     Config
		wantAdd bool
		wantDel bool
	}{
		{"no patterns keeps all", Config{}, true, true},
		{"include narrows", Config{Include: []string{"^add"}}, true, false},
		{"exclude removes", Config{Exclude: []string{"^delete"}}, true, false},
		{"exclude wins over include", Config{Include: []string{".*"}, Exclude: []string{"^add"}}, false, true},
		{"descriptor matching", Config{Include: []string{`\(int,int\)`}}, true, false},
		{"user predicate applies", Config{Filter: func(m ir.Member) bool { return m.Name != "add" }}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compileFilter(&tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := filter(add); got != tt.wantAdd {
				t.Errorf("filter(add) = %v, want %v", got, tt.wantAdd)
			}
			if got := filter(del); got != tt.wantDel {
				t.Errorf("filter(delete) = %v, want %v", got, tt.wantDel)
			}
		})
	}
}

func TestCompileFilterInvalidPattern(t *testing.T) {
	_, err := compileFilter(&Config{Exclude: []string{"("}})
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}
