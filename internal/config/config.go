package config

import (
	"fmt"
	"os"

	"github.com/signalnine/solverbench/internal/statistic"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Solvers     []Solver  `yaml:"solvers"`
	Problems    []Problem `yaml:"problems"`
	Repetitions int       `yaml:"repetitions"`
	Parallel    int       `yaml:"parallel"`
	Resources   Resources `yaml:"resources"`
	Results     Results   `yaml:"results"`
}

type Solver struct {
	Name             string            `yaml:"name"`
	Image            string            `yaml:"image"`
	Command          []string          `yaml:"command"`
	Env              map[string]string `yaml:"env"`
	SingleStatistics []statistic.Kind  `yaml:"single_statistics"`
}

type Problem struct {
	Name             string           `yaml:"name"`
	Dataset          string           `yaml:"dataset"`
	Statistics       []statistic.Kind `yaml:"statistics"`
	TimeLimitMinutes int              `yaml:"time_limit_minutes"`
}

type Resources struct {
	CPULimit    float64 `yaml:"cpu_limit"`
	MemoryLimit int64   `yaml:"memory_limit"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Solvers) == 0 {
		return fmt.Errorf("no solvers defined")
	}
	seen := map[string]bool{}
	for i, s := range cfg.Solvers {
		if s.Name == "" {
			return fmt.Errorf("solver %d: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("solver %q: defined twice", s.Name)
		}
		seen[s.Name] = true
		if s.Image == "" {
			return fmt.Errorf("solver %q: image is required", s.Name)
		}
		for _, k := range s.SingleStatistics {
			if _, err := statistic.ParseKind(string(k)); err != nil {
				return fmt.Errorf("solver %q: %w", s.Name, err)
			}
			if !k.IsSingleKind() {
				return fmt.Errorf("solver %q: %s is a problem statistic", s.Name, k)
			}
		}
	}
	if len(cfg.Problems) == 0 {
		return fmt.Errorf("no problems defined")
	}
	seen = map[string]bool{}
	for i, p := range cfg.Problems {
		if p.Name == "" {
			return fmt.Errorf("problem %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("problem %q: defined twice", p.Name)
		}
		seen[p.Name] = true
		if p.Dataset == "" {
			return fmt.Errorf("problem %q: dataset is required", p.Name)
		}
		for _, k := range p.Statistics {
			if _, err := statistic.ParseKind(string(k)); err != nil {
				return fmt.Errorf("problem %q: %w", p.Name, err)
			}
			if !k.IsProblemKind() {
				return fmt.Errorf("problem %q: %s is a single statistic", p.Name, k)
			}
		}
	}
	if cfg.Repetitions < 1 {
		return fmt.Errorf("repetitions must be at least 1")
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	if cfg.Results.Dir == "" {
		cfg.Results.Dir = "results"
	}
	return nil
}
