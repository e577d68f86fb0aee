// Package config loads configuration structs from environment variables.
//
// It combines github.com/joho/godotenv, which reads .env files, with
// github.com/caarlos0/env/v11, which maps variables onto struct fields
// through `env` tags:
//
//	type Config struct {
//	    MerchantID string `env:"MERCHANT_ID,required"`
//	    APIURI     string `env:"API_URI" envDefault:"https://pay.solidgate.com/api/v1/"`
//	}
//
//	var cfg Config
//	err := config.Load(&cfg, config.WithPrefix("SOLIDGATE_"))
//
// A .env file in the working directory is read when it exists. WithEnvFiles
// replaces it with an explicit list. Variables already set in the
// environment take precedence over file values, and the process
// environment is never modified, so tests may pass WithEnvironment instead
// of touching os.Setenv.
//
// Errors wrap ErrParsingConfig, ErrLoadingEnvFile or ErrNilPointer and can
// be matched with errors.Is.
package config
