package targets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTargets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write targets file: %v", err)
	}
	return path
}

func TestLoadEmptyPath(t *testing.T) {
	list, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Load(\"\") returned %d targets, want 0", len(list))
	}
}

func TestLoadValid(t *testing.T) {
	path := writeTargets(t, `
targets:
  - name: auth
    url: https://auth.grimoire.example
    path: /healthz
  - name: search
    url: https://search.grimoire.example/
`)

	list, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Load() returned %d targets, want 2", len(list))
	}

	if list[0].Name != "auth" || list[0].URL != "https://auth.grimoire.example/healthz" {
		t.Errorf("target[0] = %+v", list[0])
	}
	// Missing path defaults to /
	if list[1].Name != "search" || list[1].URL != "https://search.grimoire.example/" {
		t.Errorf("target[1] = %+v", list[1])
	}
}

func TestLoadNormalizesPath(t *testing.T) {
	path := writeTargets(t, `
targets:
  - name: media
    url: https://media.grimoire.example
    path: status
`)

	list, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if list[0].URL != "https://media.grimoire.example/status" {
		t.Errorf("URL = %q, want path prefixed with /", list[0].URL)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
targets:
  - url: https://auth.grimoire.example
`,
			wantErr: "has no name",
		},
		{
			name: "reserved name",
			content: `
targets:
  - name: backend
    url: https://auth.grimoire.example
`,
			wantErr: "reserved",
		},
		{
			name: "duplicate name",
			content: `
targets:
  - name: auth
    url: https://auth.grimoire.example
  - name: auth
    url: https://auth2.grimoire.example
`,
			wantErr: "duplicate target name",
		},
		{
			name: "relative url",
			content: `
targets:
  - name: auth
    url: auth.grimoire.example
`,
			wantErr: "not an absolute URL",
		},
		{
			name:    "malformed yaml",
			content: "targets: [",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTargets(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}
