package app

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/JiscSD/native-xml-adapter/native"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const defaultConfig = `# Native XML Adapter

################################## LOGGING ####################################

[logging]

#
# Logging verbosity level.
# Supported values: "DEBUG", "INFO", "WARN", "ERROR", "FATAL" or "PANIC".
#
level = "INFO"

################################## STORAGE ####################################

[storage]

#
# Persistence backend.
# Supported values: "sqlite" or "memory". The memory backend forgets
# everything when the command exits, which is only useful to dry-run an
# import.
#
driver = "sqlite"

#
# SQLite data source name.
#
dsn = "native-xml-adapter.db"

#
# Directory where submission file revisions are stored.
#
files_dir = "files"

################################## IMPORT #####################################

[import]

#
# Directory used to resolve relative href paths. Defaults to the directory
# of the imported document.
#
dir = ""

#
# Maximum time spent fetching one remote revision, retries included.
#
fetch_timeout = "5m"

#
# Additional attempts of a failed remote fetch.
#
fetch_retries = 3

#
# Element vocabulary of the documents.
# Supported values: "generic", "preprint" or "article".
#
profile = "generic"

################################## EXPORT #####################################

[export]

#
# Embed revisions as base64 instead of href elements.
#
embed_files = false

#
# Prefix of the href of revisions that are not embedded.
#
base_url = ""

#
# Include review rounds, queries and workflow-only files.
#
include_workflow = false

#
# Skip the validation of the exported document.
#
no_validation = false

################################## METRICS ####################################

[metrics]

#
# When set, counters are written to this file after each run using the
# node-exporter textfile format.
#
textfile = ""

################################## EVENTS #####################################

[events]

#
# ARN of the SNS topic where MetadataChanged and ImportCompleted messages are
# published. Events are only logged when empty.
#
sns_topic = ""

################################## AWS ########################################

[aws]

s3_profile = ""
s3_endpoint = ""
sns_profile = ""
sns_endpoint = ""
`

type Config struct {
	v *viper.Viper

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`

	Storage struct {
		Driver   string `mapstructure:"driver"`
		DSN      string `mapstructure:"dsn"`
		FilesDir string `mapstructure:"files_dir"`
	} `mapstructure:"storage"`

	Import struct {
		Dir          string        `mapstructure:"dir"`
		FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
		FetchRetries uint64        `mapstructure:"fetch_retries"`
		Profile      string        `mapstructure:"profile"`
	} `mapstructure:"import"`

	Export struct {
		EmbedFiles      bool   `mapstructure:"embed_files"`
		BaseURL         string `mapstructure:"base_url"`
		IncludeWorkflow bool   `mapstructure:"include_workflow"`
		NoValidation    bool   `mapstructure:"no_validation"`
	} `mapstructure:"export"`

	Metrics struct {
		Textfile string `mapstructure:"textfile"`
	} `mapstructure:"metrics"`

	Events struct {
		SNSTopic string `mapstructure:"sns_topic"`
	} `mapstructure:"events"`

	AWS struct {
		S3Profile   string `mapstructure:"s3_profile"`
		S3Endpoint  string `mapstructure:"s3_endpoint"`
		SNSProfile  string `mapstructure:"sns_profile"`
		SNSEndpoint string `mapstructure:"sns_endpoint"`
	} `mapstructure:"aws"`
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required by the sqlite driver")
		}
	case "memory":
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if _, err := native.ParseProfile(c.Import.Profile); err != nil {
		return err
	}
	if c.Import.FetchTimeout <= 0 {
		return errors.New("import.fetch_timeout must be positive")
	}
	return nil
}

func (c Config) String() string {
	tmpfile, err := os.CreateTemp("", "config.*.toml")
	if err != nil {
		return err.Error()
	}
	defer os.Remove(tmpfile.Name())
	defer tmpfile.Close()
	err = c.v.WriteConfigAs(tmpfile.Name())
	if err != nil {
		return err.Error()
	}
	blob, err := io.ReadAll(tmpfile)
	if err != nil {
		return err.Error()
	}
	return string(blob)
}

func loadConfig(c *Config) error {
	v := viper.New()

	v.SetEnvPrefix("NATIVE_XML_ADAPTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("native-xml-adapter")
	v.SetConfigType("toml")
	v.AddConfigPath("$HOME/.config/")
	v.AddConfigPath("/etc/native-xml-adapter/")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read our default configuration.
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		panic(err) // Not in the user path.
	}

	// Include configuration file provided by the user.
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return errors.Wrap(err, "configuration unmarshaling failed")
	}

	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "config did not pass validation")
	}

	c.v = v

	return nil
}
