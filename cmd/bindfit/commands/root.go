package commands

import (
	"time"

	"supramolecular/application/services"
	domainconfig "supramolecular/domain/config"
	"supramolecular/domain/fitting"
	"supramolecular/infrastructure/observability"
	pkgobservability "supramolecular/pkg/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	logLevel string
	timeout  time.Duration
	asJSON   bool

	logger  *zap.Logger
	service *services.FitService
}

// Execute runs the bindfit command line
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Fits run in process against local
// CSV files; no server or storage is involved.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "bindfit",
		Short:        "Fit and simulate supramolecular binding isotherms",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "maximum time for one fit")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")

	root.AddCommand(fittersCmd(opts), fitCmd(opts), simCmd(opts), tokenCmd())
	return root
}

func (o *options) init() error {
	level, err := zap.ParseAtomicLevel(o.logLevel)
	if err != nil {
		return err
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = level
	zcfg.OutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return err
	}
	o.logger = logger

	dc := domainconfig.DevelopmentDomainConfig()
	dc.FitTimeout = o.timeout
	dc.MaxConcurrentFits = 1
	if err := dc.Validate(); err != nil {
		return err
	}

	o.service = services.NewFitService(
		fitting.DefaultRegistry(),
		dc,
		pkgobservability.NewTracer("bindfit", false),
		observability.NopMetrics{},
		logger,
	)
	return nil
}
