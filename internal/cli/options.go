package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kyma-incubator/app-reconciler/pkg/logger"
	"go.uber.org/zap"
)

type Options struct {
	Verbose      bool
	OutputFormat string
	//LogFile is optional, logs are additionally written into a rotated file when set
	LogFile    string
	loggerOnce sync.Once
	logger     *zap.SugaredLogger
}

func (o *Options) String() string {
	return fmt.Sprintf("CLI options: verbose=%t output=%s logFile=%s", o.Verbose, o.OutputFormat, o.LogFile)
}

func (o *Options) Logger() *zap.SugaredLogger {
	o.loggerOnce.Do(func() {
		var err error
		if o.LogFile == "" {
			o.logger, err = logger.NewLogger(o.Verbose)
		} else {
			o.logger, err = logger.NewLoggerWithFile(o.Verbose, o.LogFile)
		}
		if err != nil {
			o.logger = logger.NewOptionalLogger(o.Verbose)
			o.logger.Warnf("Failed to create logger, falling back to console logger: %s", err)
		}
	})
	return o.logger
}

func (o *Options) Validate() error {
	for _, supportedFormat := range SupportedOutputFormats {
		if supportedFormat == o.OutputFormat {
			return nil
		}
	}
	return fmt.Errorf("output format '%s' not supported - choose between '%s'", o.OutputFormat, strings.Join(SupportedOutputFormats, "', '"))
}
