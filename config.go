package mainframequiz

import (
	"github.com/spf13/viper"
)

// Config holds everything the binaries need to wire the pipeline, the report
// sink, and the web server.
type Config struct {
	OpenAIAPIKey string
	Model        string
	ResultsDir   string
	DatabasePath string
	ListenPort   string
	SessionKey   string
}

// LoadConfig reads configuration from an optional YAML file and the
// environment. Every key has a default except the API key, which must come
// from OPENAI_API_KEY (or the file); a missing key is not an error here —
// the pipeline reports ErrProviderUnavailable when generation is attempted.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetDefault("model", "gpt-4o")
	v.SetDefault("results_dir", "quiz_results")
	v.SetDefault("database_path", "quiz_results.db")
	v.SetDefault("listen_port", "8180")
	v.SetDefault("session_key", "quiz-session-secret")

	v.AutomaticEnv()
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("listen_port", "PORT")

	if err := v.ReadInConfig(); err != nil {
		// The config file is optional; an explicitly named file must load.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, err
		}
	}

	return &Config{
		OpenAIAPIKey: v.GetString("openai_api_key"),
		Model:        v.GetString("model"),
		ResultsDir:   v.GetString("results_dir"),
		DatabasePath: v.GetString("database_path"),
		ListenPort:   v.GetString("listen_port"),
		SessionKey:   v.GetString("session_key"),
	}, nil
}
