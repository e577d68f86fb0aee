package config

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when present and no other files were requested.
const DefaultEnvFile = ".env"

type options struct {
	files       []string
	prefix      string
	environment map[string]string
}

// Option configures Load.
type Option func(*options)

// WithEnvFiles reads the given .env files instead of the default one.
// Unlike the default file, every listed file must exist.
func WithEnvFiles(files ...string) Option {
	return func(o *options) {
		o.files = append(o.files, files...)
	}
}

// WithPrefix prepends prefix to every env tag, e.g. "SOLIDGATE_".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithEnvironment parses the given variables instead of the process
// environment. .env files still apply underneath.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) {
		o.environment = vars
	}
}

// Load parses environment variables into the struct pointed to by v.
//
// Values from .env files are used only where the environment does not
// already define a variable, mirroring godotenv.Load. The process
// environment itself is never modified.
//
// Example:
//
//	type RedisConfig struct {
//		URL string `env:"URL,required"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg, config.WithPrefix("REDIS_")); err != nil {
//		// handle
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	vars, err := o.resolve()
	if err != nil {
		return err
	}

	if err := env.ParseWithOptions(v, env.Options{
		Environment: vars,
		Prefix:      o.prefix,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func (o *options) resolve() (map[string]string, error) {
	vars := map[string]string{}

	if len(o.files) > 0 {
		fromFiles, err := godotenv.Read(o.files...)
		if err != nil {
			return nil, errors.Join(ErrLoadingEnvFile, err)
		}
		maps.Copy(vars, fromFiles)
	} else if fromFile, err := godotenv.Read(DefaultEnvFile); err == nil {
		maps.Copy(vars, fromFile)
	}

	current := o.environment
	if current == nil {
		current = env.ToMap(os.Environ())
	}
	maps.Copy(vars, current)
	return vars, nil
}
