package protocol

import "testing"

func TestBuildFromEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     Build
		ok       bool
	}{
		{"//discordapp.com/api", BuildStable, true},
		{"//ptb.discordapp.com/api", BuildPTB, true},
		{"//canary.discordapp.com/api", BuildCanary, true},
		{"//staging.discordapp.com/api", "", false},
		{"discordapp.com/api", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := BuildFromEndpoint(tt.endpoint)
		if ok != tt.ok || got != tt.want {
			t.Errorf("BuildFromEndpoint(%q) = (%q, %v), want (%q, %v)", tt.endpoint, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseBuild(t *testing.T) {
	tests := []struct {
		in      string
		want    Build
		wantErr bool
	}{
		{"stable", BuildStable, false},
		{"PTB", BuildPTB, false},
		{" canary ", BuildCanary, false},
		{"Any", BuildAny, false},
		{"nightly", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBuild(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBuild(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBuild(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBuild(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildConcrete(t *testing.T) {
	for _, b := range []Build{BuildStable, BuildPTB, BuildCanary} {
		if !b.Concrete() {
			t.Errorf("Expected %s to be concrete", b)
		}
	}
	if BuildAny.Concrete() {
		t.Error("Expected the wildcard to be non-concrete")
	}
	if Build("nightly").Concrete() {
		t.Error("Expected an unknown variant to be non-concrete")
	}
}
