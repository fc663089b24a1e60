package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_MinimalValid(t *testing.T) {
	cfg := &Config{
		Library: LibraryConfig{Root: "/tmp"},
	}
	errs := cfg.Validate()
	assert.Empty(t, errs, "expected no errors for minimal valid config")
}

func TestValidate_NoRoot(t *testing.T) {
	cfg := &Config{}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "library.root"), "expected library.root error, got %v", errs)
}

func TestValidate_NegativeBatchSize(t *testing.T) {
	cfg := &Config{
		Library: LibraryConfig{Root: "/tmp"},
		Import:  ImportConfig{BatchSize: -1},
	}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "import.batch_size"), "expected batch_size error, got %v", errs)
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := &Config{
		Library: LibraryConfig{Root: "/tmp"},
		Log:     LogConfig{Level: "verbose"},
	}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "log.level"), "expected log.level error, got %v", errs)
}

func TestValidate_AllLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		cfg := &Config{
			Library: LibraryConfig{Root: "/tmp"},
			Log:     LogConfig{Level: level},
		}
		errs := cfg.Validate()
		assert.Empty(t, errs, "expected level %q to validate", level)
	}
}

// containsError reports whether any error message contains substr.
func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
