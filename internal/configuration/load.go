package configuration

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const (
	ConfigName     = "wallets"
	ConfigType     = "yaml"
	ConfigFilePath = ConfigName + "." + ConfigType
	EnvPrefix      = "wallets"
)

// Load reads wallets.yaml from the working dir or .artifacts on top of the
// defaults, then applies WALLETS_* environment overrides
func Load(log *zap.Logger) *Configuration {
	if log == nil {
		log = zap.NewNop()
	}
	printWorkingDir(log)
	actual := load(log, ".", ".artifacts")
	printConfig(log, actual)
	return actual
}

func load(log *zap.Logger, configPathList ...string) *Configuration {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.SetConfigType(ConfigType)

	// Defaults go in first so that every key is known to AutomaticEnv
	defaults, err := yaml.Marshal(Default())
	if err != nil {
		log.Error("failed to marshal default configuration", zap.Error(err))
		return Default()
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		log.Error("failed to read default configuration", zap.Error(err))
		return Default()
	}

	v.SetConfigName(ConfigName)
	for _, path := range configPathList {
		v.AddConfigPath(path)
	}
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn("config file not found, default configuration is used", zap.String("file", ConfigFilePath))
		} else {
			log.Error("failed to load config, default configuration is used", zap.Error(err))
			return Default()
		}
	}

	actual := &Configuration{}
	if err := v.Unmarshal(actual); err != nil {
		log.Error("failed to unmarshal config into configuration structure, default configuration is used", zap.Error(err))
		return Default()
	}
	return actual
}

// Validate reports configuration values the server cannot start with
func (c *Configuration) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendMongo, BackendPostgres:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.GRPC.Listen == "" {
		return fmt.Errorf("grpc listen address is required")
	}
	return nil
}

func printWorkingDir(log *zap.Logger) {
	wd, _ := os.Getwd()
	log.Info("working dir", zap.String("dir", wd))
}

func printConfig(log *zap.Logger, c *Configuration) {
	out, err := yaml.Marshal(cleanSecrets(c))
	if err != nil {
		log.Error("failed to marshal config structure", zap.Error(err))
		return
	}
	log.Info("loaded configuration:\n" + string(out))
}

func cleanSecrets(c *Configuration) *Configuration {
	cc := *c
	cc.Seed = append([]SeedBalance(nil), c.Seed...)
	cc.GRPC.APIToken = "<masked>"
	cc.Mongo.URI = replacePassword(cc.Mongo.URI)
	cc.Postgres.URL = replacePassword(cc.Postgres.URL)
	return &cc
}

var passwordRe = regexp.MustCompile(`^(?P<start>.*)(:(?P<pass>[^@\/:?]+)@)(?P<end>.*)$`)

func replacePassword(url string) string {
	var result []byte
	if passwordRe.MatchString(url) {
		for _, submatches := range passwordRe.FindAllStringSubmatchIndex(url, -1) {
			result = passwordRe.ExpandString(result, `$start:<masked>@$end`, url, submatches)
		}
		return string(result)
	}
	return url
}
