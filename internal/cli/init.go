package cli

import (
	"strings"

	file "github.com/kyma-incubator/app-reconciler/pkg/files"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envVarPrefix = "APP_RECONCILER"
)

var DefaultConfigFile string

func NewRootCommand(o *Options, name, shortDesc, longDesc string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: shortDesc,
		Long:  longDesc,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return InitViper(o)
		},
		SilenceErrors: false,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVarP(&DefaultConfigFile, "config", "c", "configs/app-reconciler.yaml", `Path to the configuration file.`)
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false, "Show detailed information about the executed command actions.")
	cmd.PersistentFlags().StringVarP(&o.OutputFormat, "output", "o", "table", `Output format (possible values: "`+strings.Join(SupportedOutputFormats, `", "`)+`").`)
	cmd.PersistentFlags().StringVar(&o.LogFile, "log-file", "", "Write logs additionally into this file (rotated).")
	cmd.PersistentFlags().BoolP("help", "h", false, "Command help")
	_ = viper.BindPFlag("log.file", cmd.PersistentFlags().Lookup("log-file"))
	return cmd
}

//InitViper makes configuration values available from ENV vars (prefixed with APP_RECONCILER)
//and from the configuration file. A missing configuration file is not an error.
func InitViper(o *Options) error {
	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cfgFile := getConfigFile()
	cfgFound := file.Exists(cfgFile)
	var err error
	if cfgFound {
		viper.SetConfigFile(cfgFile)
		err = viper.ReadInConfig()
	}

	//log file has to be known before the logger gets created
	o.LogFile = viper.GetString("log.file")

	switch {
	case !cfgFound:
		o.Logger().Debugf("Configuration file '%s' not found", cfgFile)
	case err != nil:
		o.Logger().Errorf("Failed to read configuration file '%s': %s", cfgFile, err)
		return err
	default:
		o.Logger().Debugf("Using configuration file '%s'", viper.ConfigFileUsed())
	}
	return nil
}

func getConfigFile() string {
	configFileEnv := viper.GetString("config")
	if configFileEnv != "" && file.Exists(configFileEnv) {
		return configFileEnv
	}
	return DefaultConfigFile
}
