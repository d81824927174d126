package common

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig reads the coordinator configuration file into config. Values
// can be overridden through VC_-prefixed environment variables, e.g.
// VC_CLIENTINSTANCES=8.
func LoadConfig(config interface{}, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("VC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := v.Unmarshal(config); err != nil {
		return errors.Wrapf(err, "failed to unmarshal config file %s", path)
	}
	return nil
}

func ConfigureLogging() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stdout)
}
