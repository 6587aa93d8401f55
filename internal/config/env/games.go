package env

import (
	"fmt"
	"os"

	"minigames_backend/internal/config"
	"minigames_backend/internal/engine/elimination"
	"minigames_backend/internal/engine/wheel"
	"minigames_backend/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const gamesConfigEnvName = "GAMES_CONFIG"

// GamesConfigPath - путь к yaml с таблицами игр
func GamesConfigPath() string {
	return getEnv(gamesConfigEnvName, "config.yaml")
}

type gamesFile struct {
	Wheel struct {
		Segments []segmentYAML `yaml:"segments"`
	} `yaml:"wheel"`
	Elimination struct {
		Chambers int `yaml:"chambers"`
		FireOdds int `yaml:"fire_odds"`
	} `yaml:"elimination"`
}

type segmentYAML struct {
	Label      string `yaml:"label"`
	Color      string `yaml:"color"`
	Multiplier string `yaml:"multiplier"`
}

type wheelConfig struct {
	segments []model.Segment
}

type eliminationConfig struct {
	chambers int
	fireOdds int
}

func readGamesFile(path string) (*gamesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f gamesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// NewWheelConfigFromYAML - таблица секторов. Если файла нет или секторы не заданы, стандартное колесо
func NewWheelConfigFromYAML(path string) (config.WheelConfig, error) {
	f, err := readGamesFile(path)
	if os.IsNotExist(err) {
		return &wheelConfig{segments: wheel.DefaultSegments()}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(f.Wheel.Segments) == 0 {
		return &wheelConfig{segments: wheel.DefaultSegments()}, nil
	}

	segments := make([]model.Segment, 0, len(f.Wheel.Segments))
	for i, s := range f.Wheel.Segments {
		mult, err := decimal.NewFromString(s.Multiplier)
		if err != nil {
			return nil, fmt.Errorf("segment %d (%s): invalid multiplier %q: %w", i, s.Label, s.Multiplier, err)
		}
		segments = append(segments, model.Segment{
			Label:      s.Label,
			Color:      s.Color,
			Multiplier: mult,
		})
	}

	return &wheelConfig{segments: segments}, nil
}

func (cfg *wheelConfig) Segments() []model.Segment {
	return cfg.segments
}

// NewEliminationConfigFromYAML - параметры дуэли, незаданные поля берутся по умолчанию
func NewEliminationConfigFromYAML(path string) (config.EliminationConfig, error) {
	cfg := &eliminationConfig{
		chambers: elimination.DefaultChambers,
		fireOdds: elimination.DefaultFireOdds,
	}

	f, err := readGamesFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if f.Elimination.Chambers != 0 {
		cfg.chambers = f.Elimination.Chambers
	}
	if f.Elimination.FireOdds != 0 {
		cfg.fireOdds = f.Elimination.FireOdds
	}
	return cfg, nil
}

func (cfg *eliminationConfig) Chambers() int {
	return cfg.chambers
}

func (cfg *eliminationConfig) FireOdds() int {
	return cfg.fireOdds
}
