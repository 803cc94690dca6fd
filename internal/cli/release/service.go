package release

import (
	"fmt"
	"time"

	"github.com/kyma-incubator/app-reconciler/pkg/release/service"
	"github.com/kyma-incubator/app-reconciler/pkg/ssl"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyServerPort         = "server.port"
	KeyServerSSLCrt       = "server.sslCrt"
	KeyServerSSLKey       = "server.sslKey"
	KeyWorkerCount        = "worker.count"
	KeyWorkerTimeout      = "worker.timeout"
	KeyRetryAttempts      = "retry.attempts"
	KeyRetryDelay         = "retry.delay"
	KeyOperationRetention = "operations.retention"
	KeyOccupancyInterval  = "worker.occupancyInterval"
)

type ServerConfig struct {
	Port   int
	SSLCrt string
	SSLKey string
}

func (c *ServerConfig) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range 1-65535", c.Port)
	}
	return ssl.VerifyKeyPair(c.SSLCrt, c.SSLKey)
}

type WorkerConfig struct {
	Workers           int
	Timeout           time.Duration
	OccupancyInterval time.Duration
}

func (c *WorkerConfig) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers count cannot be <= 0")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("worker timeout cannot be <= 0")
	}
	if c.OccupancyInterval <= 0 {
		return fmt.Errorf("occupancy interval cannot be <= 0")
	}
	return nil
}

type RetryConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

func (c *RetryConfig) validate() error {
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max-retries cannot be <= 0")
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("retry-delay cannot be <= 0")
	}
	return nil
}

type ServiceOptions struct {
	*Options
	ServerConfig *ServerConfig
	WorkerConfig *WorkerConfig
	RetryConfig  *RetryConfig
	Retention    time.Duration
}

func NewServiceOptions(o *Options) *ServiceOptions {
	return &ServiceOptions{
		Options:      o,
		ServerConfig: &ServerConfig{},
		WorkerConfig: &WorkerConfig{},
		RetryConfig:  &RetryConfig{},
	}
}

func AddServiceFlags(flags *pflag.FlagSet) error {
	//REST API configuration
	flags.Int("server-port", 8080, "Port of the REST API")
	flags.String("server-crt", "", "Path to SSL certificate file used for secure REST API communication")
	flags.String("server-key", "", "Path to SSL key file used for secure REST API communication")

	//worker pool configuration
	flags.Int("worker-count", 25, "Number of in parallel running release operations")
	flags.Duration("worker-timeout", 10*time.Minute, "Maximal time a single release operation is allowed to take")
	flags.Duration("occupancy-interval", 30*time.Second, "Interval to report the worker pool occupancy")

	//retry configuration
	flags.Int("retries-max", 3, "Number of attempts of the release existence check failing with an unclassified error (writes are never repeated)")
	flags.Duration("retries-delay", 5*time.Second, "Delay between each attempt of the existence check")

	flags.Duration("retention", time.Hour, "Time finished operations remain queryable")

	return bindFlags(flags, map[string]string{
		KeyServerPort:         "server-port",
		KeyServerSSLCrt:       "server-crt",
		KeyServerSSLKey:       "server-key",
		KeyWorkerCount:        "worker-count",
		KeyWorkerTimeout:      "worker-timeout",
		KeyOccupancyInterval:  "occupancy-interval",
		KeyRetryAttempts:      "retries-max",
		KeyRetryDelay:         "retries-delay",
		KeyOperationRetention: "retention",
	})
}

func (o *ServiceOptions) Load() {
	o.Options.Load()
	o.ServerConfig.Port = viper.GetInt(KeyServerPort)
	o.ServerConfig.SSLCrt = viper.GetString(KeyServerSSLCrt)
	o.ServerConfig.SSLKey = viper.GetString(KeyServerSSLKey)
	o.WorkerConfig.Workers = viper.GetInt(KeyWorkerCount)
	o.WorkerConfig.Timeout = viper.GetDuration(KeyWorkerTimeout)
	o.WorkerConfig.OccupancyInterval = viper.GetDuration(KeyOccupancyInterval)
	o.RetryConfig.MaxRetries = viper.GetInt(KeyRetryAttempts)
	o.RetryConfig.RetryDelay = viper.GetDuration(KeyRetryDelay)
	o.Retention = viper.GetDuration(KeyOperationRetention)
}

func (o *ServiceOptions) Validate() error {
	if err := o.Options.Validate(); err != nil {
		return err
	}
	if err := o.ServerConfig.validate(); err != nil {
		return wrapConfigErr(err, "server")
	}
	if err := o.WorkerConfig.validate(); err != nil {
		return wrapConfigErr(err, "worker")
	}
	if err := o.RetryConfig.validate(); err != nil {
		return wrapConfigErr(err, "retry")
	}
	if o.Retention <= 0 {
		return fmt.Errorf("retention has to be > 0")
	}
	return nil
}

func (o *ServiceOptions) ServiceConfig() service.Config {
	actionOptions := o.ActionConfig.actionOptions()
	return service.Config{
		Workers:       o.WorkerConfig.Workers,
		RetryAttempts: o.RetryConfig.MaxRetries,
		RetryDelay:    o.RetryConfig.RetryDelay,
		JobTimeout:    o.WorkerConfig.Timeout,
		Retention:     o.Retention,
		Waiter:        o.WaitConfig.waiterConfig(),
		Deleter:       o.DeleteConfig.deleterConfig(),
		ActionOptions: &actionOptions,
	}
}
