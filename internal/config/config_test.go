package config

import "testing"

func TestDefault_PassesValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() failed Validate: %v", err)
	}
}

func TestValidate_RejectsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
	}{
		{"negative max iterations", func(c *Config) { c.Market.MaxIterations = -1 }},
		{"negative choice set size", func(c *Config) { c.Market.ChoiceSetSize = -1 }},
		{"zero max bedrooms", func(c *Config) { c.Market.MaxBedrooms = 0 }},
		{"zero decay", func(c *Config) { c.Asking.MonthlyTimeDecay = 0 }},
		{"decay above one", func(c *Config) { c.Asking.MonthlyTimeDecay = 1.1 }},
		{"zero refit window", func(c *Config) { c.Asking.RefitWindowMonths = 0 }},
		{"negative new dwellings", func(c *Config) { c.Supply.NewDwellingsPerYear = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected Validate to reject the mutated field")
			}
		})
	}
}
