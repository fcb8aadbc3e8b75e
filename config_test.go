package volatilespace

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConf(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPredictorConfig(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	cfg, err := LoadPredictorConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultPredictorConfig() {
		t.Fatalf("defaults not used: %+v", cfg)
	}

	dir := t.TempDir()
	path := writeConf(t, dir, "tuned.toml", "[predictor]\nprobes = 24\nexact_tolerance = 1e-5\nworkers = 2\n")
	cfg, err = LoadPredictorConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Probes != 24 || cfg.ExactTol != 1e-5 || cfg.Workers != 2 {
		t.Fatalf("file not read: %+v", cfg)
	}
	if cfg.ApproxTol != 1e-3 || cfg.ExtraIterOpposed != 20 {
		t.Fatalf("absent keys should keep their default: %+v", cfg)
	}

	t.Setenv("VOLATILESPACE_PREDICTOR_PROBES", "8")
	cfg, err = LoadPredictorConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Probes != 8 {
		t.Fatalf("environment override ignored: %d probes", cfg.Probes)
	}
}

func TestLoadPredictorConfigFromEnvDir(t *testing.T) {
	dir := t.TempDir()
	writeConf(t, dir, "conf.toml", "[predictor]\nextra_iterations = 12\n")
	t.Setenv(ConfigEnv, dir)
	cfg, err := LoadPredictorConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ExtraIter != 12 {
		t.Fatalf("conf.toml not read: %+v", cfg)
	}
}

func TestLoadPredictorConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadPredictorConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("missing file accepted")
	}
	path := writeConf(t, dir, "bad.toml", "[predictor]\nprobes = 1\n")
	if _, err := LoadPredictorConfig(path); err == nil {
		t.Fatal("a single probe accepted")
	}
	path = writeConf(t, dir, "tol.toml", "[predictor]\nexact_tolerance = 1e-2\n")
	if _, err := LoadPredictorConfig(path); err == nil {
		t.Fatal("exact tolerance above the approximate one accepted")
	}
	path = writeConf(t, dir, "scan.toml", "[predictor]\nscan_limit = 10\n")
	if _, err := LoadPredictorConfig(path); err == nil {
		t.Fatal("scan limit below the probes accepted")
	}
}
