package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mandarin-cards/studyd/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}
	if err := c.Study.validate(); err != nil {
		return fmt.Errorf("study: %w", err)
	}

	return nil
}

func (s *SRSConfig) validate() error {
	if !domain.SchedulerVariant(s.Variant).IsValid() {
		return fmt.Errorf("variant must be %q or %q (got %q)",
			domain.VariantLearningSteps, domain.VariantPlainSM2, s.Variant)
	}
	if s.MinEaseFactor <= 0 {
		return fmt.Errorf("min_ease_factor must be > 0 (got %v)", s.MinEaseFactor)
	}
	if s.HardWait <= 0 {
		return fmt.Errorf("hard_wait must be > 0 (got %v)", s.HardWait)
	}

	steps, err := ParseLearningSteps(s.LearningStepsRaw)
	if err != nil {
		return fmt.Errorf("learning_steps: %w", err)
	}
	if domain.SchedulerVariant(s.Variant) == domain.VariantLearningSteps && len(steps) == 0 {
		return fmt.Errorf("learning_steps must not be empty for the %q variant", domain.VariantLearningSteps)
	}
	s.LearningSteps = steps

	return nil
}

func (s *StudyConfig) validate() error {
	if !domain.StudyMode(s.Mode).IsValid() {
		return fmt.Errorf("mode must be %q or %q (got %q)", domain.ModeA, domain.ModeB, s.Mode)
	}
	if s.FetchCeiling <= 0 {
		return fmt.Errorf("fetch_ceiling must be > 0 (got %d)", s.FetchCeiling)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// ParseLearningSteps parses a comma-separated string of durations (e.g. "1m,10m")
// into a slice of time.Duration. An empty string returns a nil slice.
func ParseLearningSteps(raw string) ([]time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	steps := make([]time.Duration, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := time.ParseDuration(p)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", p, err)
		}
		steps = append(steps, d)
	}

	return steps, nil
}
