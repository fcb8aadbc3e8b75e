package volatilespace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigEnv is the environment variable pointing to the configuration directory.
const ConfigEnv = "VOLATILESPACE_CONFIG"

// PredictorConfig tunes the COI entry search.
type PredictorConfig struct {
	Probes           int     // initial scan points over the reachable arc
	ScanLimit        int     // clearance evaluations allowed to the scan
	ExtraIter        int     // refinement iterations beyond the probes
	ExtraIterOpposed int     // same, for orbits in opposite directions
	ExactTol         float64 // correction under which the event is exact
	ApproxTol        float64 // correction under which an unconverged event is returned
	SecantLimit      float64 // largest secant step taken instead of the raw correction
	CacheSize        int     // prediction cache entries
	Workers          int     // concurrent predictions in a batch
}

// DefaultPredictorConfig returns the default search configuration.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		Probes:           16,
		ScanLimit:        2048,
		ExtraIter:        10,
		ExtraIterOpposed: 20,
		ExactTol:         1e-4,
		ApproxTol:        1e-3,
		SecantLimit:      1.0,
		CacheSize:        256,
		Workers:          4,
	}
}

// Validate returns an error if the configuration cannot drive a search.
func (c PredictorConfig) Validate() error {
	if c.Probes < 2 {
		return fmt.Errorf("predictor.probes must be at least 2, got %d", c.Probes)
	}
	if c.ScanLimit < c.Probes+1 {
		return fmt.Errorf("predictor.scan_limit must exceed the probes, got %d", c.ScanLimit)
	}
	if c.ExtraIter < 0 || c.ExtraIterOpposed < 0 {
		return fmt.Errorf("predictor extra iterations must be non negative")
	}
	if c.ExactTol <= 0 || c.ApproxTol < c.ExactTol {
		return fmt.Errorf("predictor tolerances invalid: exact=%g approx=%g", c.ExactTol, c.ApproxTol)
	}
	if c.Workers < 1 {
		return fmt.Errorf("predictor.workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// LoadPredictorConfig reads the `predictor` section of the provided configuration
// file (any format viper supports). Absent keys keep their default. If path is empty,
// `conf` is looked up in the directory named by VOLATILESPACE_CONFIG, and the defaults
// are returned when that variable is unset. Every key may be overridden from the
// environment, e.g. VOLATILESPACE_PREDICTOR_PROBES.
func LoadPredictorConfig(path string) (PredictorConfig, error) {
	cfg := DefaultPredictorConfig()
	v := viper.New()
	v.SetEnvPrefix("volatilespace")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if path == "" {
		if dir := os.Getenv(ConfigEnv); dir != "" {
			v.SetConfigName("conf")
			v.AddConfigPath(dir)
			path = filepath.Join(dir, "conf")
		}
	} else {
		v.SetConfigFile(path)
	}
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}

	cfg.Probes = v.GetInt("predictor.probes")
	cfg.ScanLimit = v.GetInt("predictor.scan_limit")
	cfg.ExtraIter = v.GetInt("predictor.extra_iterations")
	cfg.ExtraIterOpposed = v.GetInt("predictor.extra_iterations_opposed")
	cfg.ExactTol = v.GetFloat64("predictor.exact_tolerance")
	cfg.ApproxTol = v.GetFloat64("predictor.approx_tolerance")
	cfg.SecantLimit = v.GetFloat64("predictor.secant_limit")
	cfg.CacheSize = v.GetInt("predictor.cache_size")
	cfg.Workers = v.GetInt("predictor.workers")
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper, cfg PredictorConfig) {
	v.SetDefault("predictor.probes", cfg.Probes)
	v.SetDefault("predictor.scan_limit", cfg.ScanLimit)
	v.SetDefault("predictor.extra_iterations", cfg.ExtraIter)
	v.SetDefault("predictor.extra_iterations_opposed", cfg.ExtraIterOpposed)
	v.SetDefault("predictor.exact_tolerance", cfg.ExactTol)
	v.SetDefault("predictor.approx_tolerance", cfg.ApproxTol)
	v.SetDefault("predictor.secant_limit", cfg.SecantLimit)
	v.SetDefault("predictor.cache_size", cfg.CacheSize)
	v.SetDefault("predictor.workers", cfg.Workers)
}
