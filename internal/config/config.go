package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys in the "docker" namespace.
const (
	keyCacheTimeout  = "docker.cache_timeout"
	keyExcludeImages = "docker.exclude_images"
	keyGCScript      = "docker.gc_script"

	// DefaultGracePeriod is the container grace period in seconds before
	// the collector may remove it.
	DefaultGracePeriod = 3600
)

// GC holds the resource reclaimer configuration. It is sourced once at the
// process boundary and passed explicitly; nothing reads ambient config later.
type GC struct {
	// Script is the path of the external docker-gc program.
	Script string

	// GracePeriod is how long, in seconds, an exited container is retained
	// before the collector removes it.
	GracePeriod int

	// ExcludeImages lists image names the collector must never delete.
	ExcludeImages []string
}

// LoadGC reads the reclaimer configuration from an optional dockexec.yaml
// (working directory or ~/.config/dockexec) with DOCKEXEC_-prefixed
// environment overrides.
func LoadGC() (*GC, error) {
	v := viper.New()
	v.SetDefault(keyCacheTimeout, DefaultGracePeriod)
	v.SetDefault(keyExcludeImages, "")
	v.SetDefault(keyGCScript, "")

	v.SetConfigName("dockexec")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "dockexec"))
	}

	v.SetEnvPrefix("DOCKEXEC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	script := v.GetString(keyGCScript)
	if script == "" {
		script = defaultGCScript()
	}

	return &GC{
		Script:        script,
		GracePeriod:   v.GetInt(keyCacheTimeout),
		ExcludeImages: splitImageList(v.GetString(keyExcludeImages)),
	}, nil
}

// defaultGCScript locates docker-gc next to the running executable, falling
// back to a $PATH lookup.
func defaultGCScript() string {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "docker-gc")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if path, err := exec.LookPath("docker-gc"); err == nil {
		return path
	}
	return "docker-gc"
}

// splitImageList parses the comma-separated exclusion list, dropping empty
// entries.
func splitImageList(raw string) []string {
	var images []string
	for _, img := range strings.Split(raw, ",") {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	return images
}
