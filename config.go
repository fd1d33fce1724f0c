package pconics

import (
	"fmt"
	"os"
	"strings"

	"github.com/ChristopherRabotin/pconics/units"
	"github.com/spf13/viper"
)

// ConfigEnv is the environment variable holding the directory of conf.toml.
const ConfigEnv = "PCONICS_CONFIG"

// Config is the configuration of an application using this package.
type Config struct {
	LogLevel    string     // general.log_level
	Unit        units.Unit // general.unit, used to display radii
	CatalogFile string     // catalog.file, empty for the default solar system
}

// bodyConfig is one [[bodies]] table of a catalog file.
type bodyConfig struct {
	Name    string  `mapstructure:"name"`
	Parent  string  `mapstructure:"parent"`
	GM      float64 `mapstructure:"gm"`
	GMUnit  string  `mapstructure:"gm_unit"`
	SMA     float64 `mapstructure:"sma"`
	SMAUnit string  `mapstructure:"sma_unit"`
}

func (b bodyConfig) def() (BodyDef, error) {
	gmUnit, err := units.ParseUnit(orDefault(b.GMUnit, units.KM3PerS2.Symbol()))
	if err != nil {
		return BodyDef{}, fmt.Errorf("body '%s': %w", b.Name, err)
	}
	def := BodyDef{Name: b.Name, Parent: b.Parent, GM: units.New(b.GM, gmUnit)}
	if strings.TrimSpace(b.Parent) != "" || b.SMA != 0 {
		smaUnit, err := units.ParseUnit(orDefault(b.SMAUnit, units.Kilometer.Symbol()))
		if err != nil {
			return BodyDef{}, fmt.Errorf("body '%s': %w", b.Name, err)
		}
		def.SemiMajorAxis = units.New(b.SMA, smaUnit)
	}
	return def, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// CatalogFromConfig builds a catalog from the `bodies` array of tables, e.g.
//
//	[[bodies]]
//	name = "Earth"
//	parent = "Sun"
//	gm = 398600.4418  # gm_unit defaults to km3/s2
//	sma = 149.598e6   # sma_unit defaults to km
func CatalogFromConfig(v *viper.Viper) (*Catalog, error) {
	var entries []bodyConfig
	if err := v.UnmarshalKey("bodies", &entries); err != nil {
		return nil, fmt.Errorf("could not read bodies: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no bodies defined in %s", v.ConfigFileUsed())
	}
	defs := make([]BodyDef, len(entries))
	for i, entry := range entries {
		def, err := entry.def()
		if err != nil {
			return nil, err
		}
		defs[i] = def
	}
	return NewCatalog(defs)
}

// LoadCatalog reads a catalog file (TOML, YAML or JSON).
func LoadCatalog(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s not readable: %w", path, err)
	}
	return CatalogFromConfig(v)
}

// LoadConfig reads the configuration file at path. If path is empty, conf.toml is
// searched for in the directory of the PCONICS_CONFIG environment variable, and the
// defaults are returned if there is none.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.unit", units.Kilometer.Symbol())
	v.SetDefault("catalog.file", "")
	if path != "" {
		v.SetConfigFile(path)
	} else if dir := os.Getenv(ConfigEnv); dir != "" {
		v.SetConfigName("conf")
		v.AddConfigPath(dir)
	}
	if path != "" || os.Getenv(ConfigEnv) != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read configuration: %w", err)
		}
	}
	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	u, err := units.ParseUnit(v.GetString("general.unit"))
	if err != nil {
		return Config{}, err
	}
	if u.Dimension() != units.Length {
		return Config{}, fmt.Errorf("general.unit must be a length unit, got %s: %w", u, units.ErrIncompatible)
	}
	return Config{
		LogLevel:    strings.ToLower(v.GetString("general.log_level")),
		Unit:        u,
		CatalogFile: v.GetString("catalog.file"),
	}, nil
}

// Catalog returns the catalog file of this configuration, or the default solar system.
func (c Config) Catalog() (*Catalog, error) {
	if c.CatalogFile == "" {
		return SolarSystem(), nil
	}
	return LoadCatalog(c.CatalogFile)
}
