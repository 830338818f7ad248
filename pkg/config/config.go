package config

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	APIv1 = "v1"
	APIv2 = "v2"

	DefaultChance = 4
)

const (
	EnvInfile   = "NYCHICKENS_INFILE"
	EnvYAML     = "NYCHICKENS_YAML"
	EnvChance   = "NYCHICKENS_CHANCE"
	EnvAPI      = "NYCHICKENS_API"
	EnvSchedule = "NYCHICKENS_SCHEDULE"
)

// Config holds the defaults for a run. Command line flags override them.
type Config struct {
	Infile   string
	YAMLPath string
	Chance   int
	API      string
	Schedule string
}

func getEnv(key, defaultValue string, printEnv bool) string {
	logger := log.Default()
	value := os.Getenv(key)
	if printEnv {
		logger.Debug("Env", "key", key, "value", value)
	}
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvFile loads the first .env found in the working directory or up to
// maxDepth parent directories. ENV_FILE, when set, is tried first.
func LoadEnvFile(maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = 5
	}

	var candidates []string
	if envFilePath := os.Getenv("ENV_FILE"); envFilePath != "" {
		candidates = append(candidates, envFilePath)
	}
	dir := "."
	for i := 0; i <= maxDepth; i++ {
		candidates = append(candidates, filepath.Join(dir, ".env"))
		dir = filepath.Join(dir, "..")
	}

	for _, path := range candidates {
		if err := godotenv.Load(path); err == nil {
			return nil
		}
	}
	return errors.Errorf("could not find .env file after checking %d parent directories", maxDepth)
}

// EnvErrors maps an environment variable to the reason its value was
// rejected. The matching Config field keeps its default.
type EnvErrors map[string]error

func (e EnvErrors) Error() string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, key := range keys {
		msgs = append(msgs, e[key].Error())
	}
	return strings.Join(msgs, "; ")
}

// LoadConfig reads NYCHICKENS_* variables, after loading a .env file if one
// exists. Invalid values are reported as EnvErrors alongside a usable Config,
// so callers can let command line flags take precedence.
func LoadConfig(printEnv bool) (*Config, error) {
	_ = LoadEnvFile(2)

	conf := &Config{
		Infile:   getEnv(EnvInfile, "animals.json", printEnv),
		YAMLPath: getEnv(EnvYAML, "nychickens.yaml", printEnv),
		Chance:   DefaultChance,
		API:      getEnv(EnvAPI, APIv1, printEnv),
		Schedule: getEnv(EnvSchedule, "", printEnv),
	}
	invalid := EnvErrors{}

	chance, err := strconv.Atoi(getEnv(EnvChance, strconv.Itoa(DefaultChance), printEnv))
	if err != nil {
		invalid[EnvChance] = errors.Wrapf(err, "%s must be an integer", EnvChance)
	} else {
		conf.Chance = chance
	}

	if conf.API != APIv1 && conf.API != APIv2 {
		invalid[EnvAPI] = errors.Errorf("%s must be %q or %q, got %q", EnvAPI, APIv1, APIv2, conf.API)
		conf.API = APIv1
	}

	if len(invalid) > 0 {
		return conf, invalid
	}
	return conf, nil
}
