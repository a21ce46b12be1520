package provider

import "testing"

func TestSplitClassPattern(t *testing.T) {
	tests := []struct {
		pattern  string
		pkgPath  string
		typeName string
		ok       bool
	}{
		{"bytes.Buffer", "bytes", "Buffer", true},
		{"net/http.Client", "net/http", "Client", true},
		{"github.com/user/repo/pkg.Type", "github.com/user/repo/pkg", "Type", true},
		{"noDot", "", "", false},
		{"trailing.", "", "", false},
		{"a/b/c", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			pkgPath, typeName, ok := splitClassPattern(tt.pattern)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if pkgPath != tt.pkgPath || typeName != tt.typeName {
				t.Errorf("expected (%q, %q), got (%q, %q)",
					tt.pkgPath, tt.typeName, pkgPath, typeName)
			}
		})
	}
}
