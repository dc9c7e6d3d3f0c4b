package config

import (
	"flag"
	"io/ioutil"
	"path/filepath"

	"github.com/imdario/mergo"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	DEVELOPMENT = "development"
	PRODUCTION  = "production"
	// EnvPrefix prefixes every environment override, e.g. FPMINER_TREE_SUPPORT.
	EnvPrefix = "fpminer"
)

type Configuration struct {
	Env         string `yaml:"env" envconfig:"ENV"`
	TreeSupport int    `yaml:"tree_support" envconfig:"TREE_SUPPORT"`
	MineSupport int    `yaml:"mine_support" envconfig:"MINE_SUPPORT"`
	MaxLength   int    `yaml:"max_length" envconfig:"MAX_LENGTH"`
	TopK        int    `yaml:"top_k" envconfig:"TOP_K"`
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR"`
	CacheSize   int    `yaml:"cache_size" envconfig:"CACHE_SIZE"`
}

var defaultConfiguration = Configuration{
	Env:         DEVELOPMENT,
	TreeSupport: 2,
	MineSupport: 2,
	DataDir:     "/tmp/fpminer",
	CacheSize:   64,
}

var configuration *Configuration = nil

// Init loads the configuration. Defaults are overlaid by the yaml file at
// filePath (optional), then FPMINER_* environment variables, then the
// non-zero fields of overrides.
func Init(filePath string, overrides *Configuration) error {
	return initConfig(filePath, overrides, nil)
}

// InitFromFlags is Init for a parsed flag set from RegisterFlags. Flags
// given on the command line win even when set to a zero value, so
// --top_k=0 clears a top_k from the file.
func InitFromFlags(fs *flag.FlagSet, filePath string, flagConf *Configuration) error {
	return initConfig(filePath, flagConf, func(conf *Configuration) {
		fs.Visit(func(f *flag.Flag) {
			setFromFlag(conf, flagConf, f.Name)
		})
	})
}

func initConfig(filePath string, overrides *Configuration, applyFlags func(*Configuration)) error {
	conf := &Configuration{}
	*conf = defaultConfiguration
	if filePath != "" {
		if err := initConfigFromFile(filePath, conf); err != nil {
			return err
		}
	}
	if err := envconfig.Process(EnvPrefix, conf); err != nil {
		log.WithError(err).Error("Failed to read config from env")
		return errors.Wrap(err, "env config")
	}
	if overrides != nil {
		if err := mergo.Merge(conf, *overrides, mergo.WithOverride); err != nil {
			return errors.Wrap(err, "merge config overrides")
		}
	}
	if applyFlags != nil {
		applyFlags(conf)
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	configuration = conf
	InitLogging()
	log.WithFields(log.Fields{"config": configuration}).Info("Config Loaded")
	return nil
}

func setFromFlag(conf, flagConf *Configuration, name string) {
	switch name {
	case "env":
		conf.Env = flagConf.Env
	case "tree_support":
		conf.TreeSupport = flagConf.TreeSupport
	case "mine_support":
		conf.MineSupport = flagConf.MineSupport
	case "max_length":
		conf.MaxLength = flagConf.MaxLength
	case "top_k":
		conf.TopK = flagConf.TopK
	case "data_dir":
		conf.DataDir = flagConf.DataDir
	case "cache_size":
		conf.CacheSize = flagConf.CacheSize
	}
}

func initConfigFromFile(filePath string, conf *Configuration) error {
	configFileAbsPath, _ := filepath.Abs(filePath)
	logCtx := log.WithFields(log.Fields{
		"file": configFileAbsPath,
	})

	raw, err := ioutil.ReadFile(configFileAbsPath)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load config")
		return errors.Wrapf(err, "read config %s", configFileAbsPath)
	}
	if err := yaml.UnmarshalStrict(raw, conf); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal yaml")
		return errors.Wrapf(err, "parse config %s", configFileAbsPath)
	}
	logCtx.Info("Config File Loaded")
	return nil
}

func (c *Configuration) Validate() error {
	if c.TreeSupport < 1 {
		return errors.Errorf("tree_support must be positive, got %d", c.TreeSupport)
	}
	if c.MineSupport < 1 {
		return errors.Errorf("mine_support must be positive, got %d", c.MineSupport)
	}
	if c.MaxLength < 0 {
		return errors.Errorf("max_length must not be negative, got %d", c.MaxLength)
	}
	if c.TopK < 0 {
		return errors.Errorf("top_k must not be negative, got %d", c.TopK)
	}
	if c.CacheSize < 1 {
		return errors.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	return nil
}

func InitLogging() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})
	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// RegisterFlags binds the configurable values to fs. Pass the results to
// InitFromFlags after parsing so only flags actually given override.
func RegisterFlags(fs *flag.FlagSet) (*string, *Configuration) {
	flagConf := &Configuration{}
	filePath := fs.String("config_filepath", "", "Yaml config file.")
	fs.StringVar(&flagConf.Env, "env", "", "Environment: development or production.")
	fs.IntVar(&flagConf.TreeSupport, "tree_support", 0, "Minimum support of the initial fp-tree.")
	fs.IntVar(&flagConf.MineSupport, "mine_support", 0, "Minimum support of conditional fp-trees.")
	fs.IntVar(&flagConf.MaxLength, "max_length", 0, "Maximum itemset length, 0 for no limit.")
	fs.IntVar(&flagConf.TopK, "top_k", 0, "Keep only the k most frequent itemsets, 0 keeps all.")
	fs.StringVar(&flagConf.DataDir, "data_dir", "", "Directory holding cached results.")
	fs.IntVar(&flagConf.CacheSize, "cache_size", 0, "Number of results kept in memory.")
	return filePath, flagConf
}

func GetConfig() *Configuration {
	return configuration
}

func IsDevelopment() bool {
	return configuration != nil && configuration.Env == DEVELOPMENT
}
