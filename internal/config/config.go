// Package config provides configuration management for the housing
// market core. Configuration is loaded from TOML files, the way the
// wider vault simulation this core was extracted from does it.
package config

import "fmt"

// Config holds every tunable parameter for a run.
type Config struct {
	Market        MarketConfig        `toml:"market"`
	Asking        AskingConfig        `toml:"asking"`
	Supply        SupplyConfig        `toml:"supply"`
	Participation ParticipationConfig `toml:"participation"`
	Database      DatabaseConfig      `toml:"database"`
	Logging       LoggingConfig       `toml:"logging"`
}

// MarketConfig controls the auction in the market-clearing engine.
type MarketConfig struct {
	MaxIterations  int     `toml:"max_iterations"`
	ChoiceSetSize  int     `toml:"choice_set_size"`
	MaxBedrooms    int     `toml:"max_bedrooms"`
	RandomSeed     uint32  `toml:"random_seed"`
	HiringProbability float64 `toml:"hiring_probability"`
	AverageSalary     float64 `toml:"average_salary"`
	SalaryStdDev      float64 `toml:"salary_std_dev"`
}

// AskingConfig controls the hedonic estimator.
type AskingConfig struct {
	MonthlyTimeDecay float64 `toml:"monthly_time_decay"`
	RefitWindowMonths int    `toml:"refit_window_months"`
}

// SupplyConfig controls the yearly supply generator.
type SupplyConfig struct {
	NewDwellingsPerYear int `toml:"new_dwellings_per_year"`
}

// ParticipationConfig holds the logit coefficient table for the
// participation model. Coefficients are named after the covariates
// they weight.
type ParticipationConfig struct {
	Constant             float64 `toml:"constant"`
	JobIncrease          float64 `toml:"job_increase"`
	JobDecrease          float64 `toml:"job_decrease"`
	Retire               float64 `toml:"retire"`
	JobChange            float64 `toml:"job_change"`
	Child                float64 `toml:"child"`
	HeadAge              float64 `toml:"head_age"`
	ChangeInBIR          float64 `toml:"change_in_bir"`
	YearsInDwelling      float64 `toml:"years_in_dwelling"`
	NumJobs              float64 `toml:"num_jobs"`
	NonMover             float64 `toml:"non_mover"`
	LabourForceParticipation float64 `toml:"labour_force_participation"`
	NonMoverRatio        float64 `toml:"non_mover_ratio"`
}

// DatabaseConfig controls the append-only sale-record store.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default returns a Config populated with the project's baseline
// parameter values.
func Default() *Config {
	return &Config{
		Market: MarketConfig{
			MaxIterations:     20,
			ChoiceSetSize:     10,
			MaxBedrooms:       7,
			RandomSeed:        2077,
			HiringProbability: 0.01,
			AverageSalary:     45000,
			SalaryStdDev:      15000,
		},
		Asking: AskingConfig{
			MonthlyTimeDecay:  0.95,
			RefitWindowMonths: 3,
		},
		Supply: SupplyConfig{
			NewDwellingsPerYear: 50,
		},
		Participation: ParticipationConfig{
			Constant:                 -0.084,
			JobIncrease:              0.15,
			JobDecrease:              0.20,
			Retire:                   0.25,
			JobChange:                0.10,
			Child:                    0.30,
			HeadAge:                  -0.01,
			ChangeInBIR:              0.0,
			YearsInDwelling:          -0.02,
			NumJobs:                  0.05,
			NonMover:                 -0.40,
			LabourForceParticipation: 0.658,
			NonMoverRatio:            0.95,
		},
		Database: DatabaseConfig{
			Path: "housingmarket.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks that every parameter is within the range that makes
// it sensible (zero is a legal boundary value for several of these,
// e.g. MaxIterations=0 simply clears no sales that month).
func (c *Config) Validate() error {
	if c.Market.MaxIterations < 0 {
		return fmt.Errorf("market.max_iterations must be >= 0")
	}
	if c.Market.ChoiceSetSize < 0 {
		return fmt.Errorf("market.choice_set_size must be >= 0")
	}
	if c.Market.MaxBedrooms < 1 {
		return fmt.Errorf("market.max_bedrooms must be >= 1")
	}
	if c.Asking.MonthlyTimeDecay <= 0 || c.Asking.MonthlyTimeDecay > 1 {
		return fmt.Errorf("asking.monthly_time_decay must be in (0, 1]")
	}
	if c.Asking.RefitWindowMonths < 1 {
		return fmt.Errorf("asking.refit_window_months must be >= 1")
	}
	if c.Supply.NewDwellingsPerYear < 0 {
		return fmt.Errorf("supply.new_dwellings_per_year must be >= 0")
	}
	return nil
}
