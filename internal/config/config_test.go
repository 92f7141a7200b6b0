package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadGC_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadGC()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.GracePeriod != DefaultGracePeriod {
		t.Errorf("Expected default grace period %d, got %d", DefaultGracePeriod, cfg.GracePeriod)
	}
	if len(cfg.ExcludeImages) != 0 {
		t.Errorf("Expected no default exclusions, got %v", cfg.ExcludeImages)
	}
	if cfg.Script == "" {
		t.Error("Expected a default collector script path, got empty string")
	}
}

func TestLoadGC_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := `docker:
  cache_timeout: 600
  exclude_images: "alpine:latest, example/keep:1.0"
  gc_script: /opt/dockexec/docker-gc
`
	if err := os.WriteFile(filepath.Join(dir, "dockexec.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGC()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.GracePeriod != 600 {
		t.Errorf("Expected grace period 600, got %d", cfg.GracePeriod)
	}
	if cfg.Script != "/opt/dockexec/docker-gc" {
		t.Errorf("Expected configured script path, got %q", cfg.Script)
	}
	want := []string{"alpine:latest", "example/keep:1.0"}
	if !reflect.DeepEqual(cfg.ExcludeImages, want) {
		t.Errorf("Expected exclusions %v, got %v", want, cfg.ExcludeImages)
	}
}

func TestLoadGC_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DOCKEXEC_DOCKER_CACHE_TIMEOUT", "120")
	t.Setenv("DOCKEXEC_DOCKER_GC_SCRIPT", "/usr/local/bin/docker-gc")

	cfg, err := LoadGC()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.GracePeriod != 120 {
		t.Errorf("Expected grace period 120 from environment, got %d", cfg.GracePeriod)
	}
	if cfg.Script != "/usr/local/bin/docker-gc" {
		t.Errorf("Expected script from environment, got %q", cfg.Script)
	}
}

func TestLoadGC_MalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile(filepath.Join(dir, "dockexec.yaml"), []byte("docker: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGC()
	if err == nil {
		t.Fatal("Expected error for malformed config file, got nil")
	}
}

func TestSplitImageList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "alpine:latest", []string{"alpine:latest"}},
		{"multiple with spaces", " a:1 , b:2 ", []string{"a:1", "b:2"}},
		{"empty entries dropped", "a:1,,b:2,", []string{"a:1", "b:2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitImageList(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitImageList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
