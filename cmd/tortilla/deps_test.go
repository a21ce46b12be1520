package main

import "testing"

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		module  string
		version string
		wantErr bool
	}{
		{"bracket form", `[github.com/gorilla/schema "v1.4.1"]`, "github.com/gorilla/schema", "v1.4.1", false},
		{"bracket without version", `[github.com/gorilla/schema]`, "github.com/gorilla/schema", "", false},
		{"colon form", "github.com/gorilla/schema:v1.4.1", "github.com/gorilla/schema", "v1.4.1", false},
		{"at form", "github.com/gorilla/schema@v1.4.1", "github.com/gorilla/schema", "v1.4.1", false},
		{"bare module", "github.com/gorilla/schema", "github.com/gorilla/schema", "", false},
		{"short module with version", "example.com/m:v2.0.0", "example.com/m", "v2.0.0", false},
		{"empty", "", "", "", true},
		{"bracket too many fields", `[a b c]`, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCoordinate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if c.Module != tt.module || c.Version != tt.version {
				t.Errorf("expected %s@%s, got %s@%s", tt.module, tt.version, c.Module, c.Version)
			}
		})
	}
}

func TestCoordinateString(t *testing.T) {
	c := Coordinate{Module: "example.com/m", Version: "v1.0.0"}
	if c.String() != "example.com/m@v1.0.0" {
		t.Errorf("unexpected string %q", c.String())
	}
	bare := Coordinate{Module: "example.com/m"}
	if bare.String() != "example.com/m" {
		t.Errorf("unexpected string %q", bare.String())
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		class string
		want  string
	}{
		{"bytes.Buffer", "bytes-buffer.go"},
		{"net/http.Client", "net-http-client.go"},
		{"provider.widget", "provider-widget.go"},
	}
	for _, tt := range tests {
		if got := outputName(tt.class); got != tt.want {
			t.Errorf("outputName(%q) = %q, want %q", tt.class, got, tt.want)
		}
	}
}
