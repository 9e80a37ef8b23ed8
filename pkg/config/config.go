package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	apperrors "github.com/textyre/bootstrap/pkg/errors"
)

// EnvPrefix is the prefix for configuration environment variables
const EnvPrefix = "DISPLAYCTL_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Config is the effective displayctl configuration
type Config struct {
	Paths     Paths     `koanf:"paths" toml:"paths"`
	Display   Display   `koanf:"display" toml:"display"`
	Privilege Privilege `koanf:"privilege" toml:"privilege"`
	Preflight Preflight `koanf:"preflight" toml:"preflight"`
}

// Paths locates the files displayctl reads and patches
type Paths struct {
	SourceRoot string `koanf:"source_root" toml:"source_root"`
	Xinitrc    string `koanf:"xinitrc" toml:"xinitrc"`
	SysfsRoot  string `koanf:"sysfs_root" toml:"sysfs_root"`
}

type Display struct {
	QueryTool string `koanf:"query_tool" toml:"query_tool"`
}

type Privilege struct {
	Command string `koanf:"command" toml:"command"`
}

// Preflight lists binaries the session needs and the package providing each
type Preflight struct {
	Binaries []string          `koanf:"binaries" toml:"binaries"`
	Packages map[string]string `koanf:"packages" toml:"packages"`
}

// LoadOptions controls where Load looks
type LoadOptions struct {
	// UserConfigPath is skipped when empty or missing
	UserConfigPath string
	// Environ defaults to os.Environ. Tests pass a fixed list.
	Environ []string
	// Overrides are applied last, keyed by dotted path
	Overrides map[string]interface{}
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load merges every configuration layer and decodes the result
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrConfigParse, "failed to load defaults")
	}

	if opts.UserConfigPath != "" {
		if _, err := os.Stat(opts.UserConfigPath); err == nil {
			if err := k.Load(file.Provider(opts.UserConfigPath), toml.Parser()); err != nil {
				return nil, apperrors.Wrapf(err, apperrors.ErrConfigParse, "failed to load config from %s", opts.UserConfigPath).
					WithDetail("path", opts.UserConfigPath)
			}
		}
	}

	if err := loadEnv(k, opts.Environ); err != nil {
		return nil, err
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func loadEnv(k *koanf.Koanf, environ []string) error {
	transform := func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}

	if environ == nil {
		if err := k.Load(env.Provider(EnvPrefix, ".", transform), nil); err != nil {
			return apperrors.Wrap(err, apperrors.ErrConfigLoad, "failed to load env vars")
		}
		return nil
	}

	values := make(map[string]interface{})
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		values[transform(name)] = value
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfigLoad, "failed to load env vars")
	}
	return nil
}

// Dump renders cfg as TOML
func Dump(cfg *Config) ([]byte, error) {
	out, err := gotoml.Marshal(cfg)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}

// Defaults returns the embedded defaults file
func Defaults() string {
	return string(defaultConfig)
}
