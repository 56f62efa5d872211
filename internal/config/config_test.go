package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsApplyWhenNothingElseSet(t *testing.T) {
	t.Setenv("REVEAL_DIRECTORY_DEFAULT_DEPTH", "")
	os.Unsetenv("REVEAL_DIRECTORY_DEFAULT_DEPTH")
	s := Load(t.TempDir(), nil)
	if got := s.Int("directory.default_depth", -1); got != 5 {
		t.Errorf("default_depth = %d, want 5", got)
	}
	if s.Provenance("directory.default_depth") != SourceDefault {
		t.Errorf("provenance = %v, want default", s.Provenance("directory.default_depth"))
	}
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("REVEAL_SSL_TIMEOUT_MS", "9000")
	s := Load(t.TempDir(), nil)
	if got := s.Int("ssl.timeout_ms", -1); got != 9000 {
		t.Errorf("timeout_ms = %d, want 9000", got)
	}
	if s.Provenance("ssl.timeout_ms") != SourceEnv {
		t.Errorf("provenance = %v, want env", s.Provenance("ssl.timeout_ms"))
	}
}

func TestCLIFlagBeatsEnv(t *testing.T) {
	t.Setenv("REVEAL_DOMAIN_RESOLVER", "8.8.8.8")
	s := Load(t.TempDir(), map[string]string{"domain.resolver": "1.1.1.1"})
	if got := s.String("domain.resolver"); got != "1.1.1.1" {
		t.Errorf("resolver = %q, want 1.1.1.1", got)
	}
	if s.Provenance("domain.resolver") != SourceFlag {
		t.Errorf("provenance = %v, want cli_flag", s.Provenance("domain.resolver"))
	}
}

func TestProjectFileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	content := "[directory]\ndefault_depth = 9\n"
	if err := os.WriteFile(filepath.Join(dir, "reveal.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	s := Load(dir, nil)
	if got := s.Int("directory.default_depth", -1); got != 9 {
		t.Errorf("default_depth = %d, want 9 from project file", got)
	}
	if s.Provenance("directory.default_depth") != SourceProject {
		t.Errorf("provenance = %v, want project_file", s.Provenance("directory.default_depth"))
	}
}
