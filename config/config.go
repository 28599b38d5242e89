// Package config loads kaleidoscope settings from a file and the environment.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/mmuldo/kaleidoscope/image"
	"github.com/mmuldo/kaleidoscope/palette"
	"github.com/mmuldo/kaleidoscope/store"
)

// EnvPrefix is prepended to every environment override, e.g. KALEIDOSCOPE_NUMBER_OF_COLORS.
const EnvPrefix = "KALEIDOSCOPE"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverAzure  = "azure"
)

// Config is the process-wide configuration. Build it once and hand it to
// the pipeline; nothing reads it globally.
type Config struct {
	Colors         []string
	NumberOfColors int
	ImageMethod    image.Method
	AssociationKey string
	Workers        int
	Store          StoreConfig
	ServerAddress  string
}

// StoreConfig selects and configures the result store.
type StoreConfig struct {
	Driver string
	Path   string
	Azure  AzureConfig
}

// AzureConfig holds Azure Blob Storage settings.
type AzureConfig struct {
	Account   string
	Key       string
	Container string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("number_of_colors", 8)
	v.SetDefault("image_method", string(image.NoDither))
	v.SetDefault("association_key", store.DefaultAssociationKey)
	v.SetDefault("workers", 1)
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", filepath.Join("~", ".kaleidoscope", "colors"))
	v.SetDefault("server.address", ":8080")
}

// New returns a viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path (if not empty) and decodes it.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if e := v.ReadInConfig(); e != nil {
			return nil, fmt.Errorf("read config %s: %w", path, e)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	method, e := image.ParseMethod(v.GetString("image_method"))
	if e != nil {
		return nil, e
	}

	storePath, e := homedir.Expand(v.GetString("store.path"))
	if e != nil {
		return nil, fmt.Errorf("expand store path: %w", e)
	}

	c := &Config{
		Colors:         v.GetStringSlice("colors"),
		NumberOfColors: v.GetInt("number_of_colors"),
		ImageMethod:    method,
		AssociationKey: v.GetString("association_key"),
		Workers:        v.GetInt("workers"),
		Store: StoreConfig{
			Driver: v.GetString("store.driver"),
			Path:   storePath,
			Azure: AzureConfig{
				Account:   v.GetString("store.azure.account"),
				Key:       v.GetString("store.azure.key"),
				Container: v.GetString("store.azure.container"),
			},
		},
		ServerAddress: v.GetString("server.address"),
	}

	if e := c.Validate(); e != nil {
		return nil, e
	}
	return c, nil
}

// Validate checks value ranges. An empty color list is allowed here; runs
// report it when they start.
func (c *Config) Validate() error {
	if c.NumberOfColors < 1 || c.NumberOfColors > 256 {
		return fmt.Errorf("number_of_colors must be between 1 and 256, got %d", c.NumberOfColors)
	}
	if e := store.CheckAssociationKey(c.AssociationKey); e != nil {
		return fmt.Errorf("association_key: %w", e)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", c.Workers)
	}
	switch c.Store.Driver {
	case DriverMemory, DriverFile:
	case DriverAzure:
		if c.Store.Azure.Account == "" || c.Store.Azure.Container == "" {
			return fmt.Errorf("azure store needs store.azure.account and store.azure.container")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// Palette builds the reference palette from Colors.
func (c *Config) Palette() (*palette.Palette, error) {
	return palette.FromHexes(c.Colors)
}

// OpenStore builds the store for one owner kind.
func (c *Config) OpenStore(kind string) (store.Store, error) {
	switch c.Store.Driver {
	case DriverMemory:
		return store.NewMemory(), nil
	case DriverAzure:
		return store.NewAzure(store.AzureOptions{
			Account:        c.Store.Azure.Account,
			Key:            c.Store.Azure.Key,
			Container:      c.Store.Azure.Container,
			Prefix:         kind,
			AssociationKey: c.AssociationKey,
		})
	default:
		return store.NewFile(filepath.Join(c.Store.Path, kind), c.AssociationKey)
	}
}
