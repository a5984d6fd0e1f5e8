package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/google/uuid"

	"github.com/soumyaswe/Pravartak-AI-sub000/alternative"
	"github.com/soumyaswe/Pravartak-AI-sub000/linkcheck"
	"github.com/soumyaswe/Pravartak-AI-sub000/mend"
	"github.com/soumyaswe/Pravartak-AI-sub000/metrics"
	"github.com/soumyaswe/Pravartak-AI-sub000/policy"
)

// errLinksChanged makes the process exit 1 without printing an error.
var errLinksChanged = errors.New("links were replaced or removed")

// httpTransport overrides the transport of every outbound request. Tests
// point it at an in-process router.
var httpTransport http.RoundTripper

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	concurrency    int
	timeout        time.Duration
	youtubeTimeout time.Duration
	rateLimit      int
	retries        int
	respectRobots  bool
	policyPath     string
	logLevel       string
	metricsFile    string
	userAgent      string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "linkmend",
		Short: "Validate and repair the links of generated markdown",
		Long: `linkmend checks every link of a markdown document, rewrites redirected
links to their final address, and replaces dead links with an annotated
search on a trusted learning platform (or removes them).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.IntVarP(&opts.concurrency, "concurrency", "j", linkcheck.DefaultConcurrency, "URLs validated at once in batch modes")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-request timeout for generic URLs")
	flags.DurationVar(&opts.youtubeTimeout, "youtube-timeout", 10*time.Second, "timeout for YouTube page fetches")
	flags.IntVar(&opts.rateLimit, "rate-limit", 0, "requests per second across all checks (0 = unlimited)")
	flags.IntVar(&opts.retries, "retries", 0, "retries for transient failures")
	flags.BoolVar(&opts.respectRobots, "respect-robots", false, "skip URLs disallowed by robots.txt")
	flags.StringVar(&opts.policyPath, "policy", "", "YAML replacement policy (default: built in)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")
	flags.StringVar(&opts.userAgent, "user-agent", linkcheck.DefaultUserAgent, "User-Agent for generic checks")

	root.AddCommand(
		newCheckCmd(opts),
		newFilterCmd(opts),
		newURLsCmd(opts),
		newExtractCmd(),
		newRoadmapCmd(opts),
	)
	return root
}

// app holds the collaborators built from the global flags for one run.
type app struct {
	opts     *globalOptions
	runID    string
	logger   *zap.Logger
	policy   *policy.Policy
	registry *prom.Registry
	recorder metrics.Recorder
}

func (o *globalOptions) newApp() (*app, error) {
	logger, err := newLogger(o.logLevel)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	pol := policy.Default()
	if o.policyPath != "" {
		if pol, err = policy.Load(o.policyPath); err != nil {
			return nil, err
		}
	}

	a := &app{
		opts:     o,
		runID:    runID,
		logger:   logger,
		policy:   pol,
		recorder: metrics.NoopRecorder{},
	}
	if o.metricsFile != "" {
		a.registry = prom.NewRegistry()
		a.recorder = metrics.NewPrometheusRecorder(a.registry)
	}
	return a, nil
}

func (a *app) validator() *linkcheck.Validator {
	cfg := linkcheck.DefaultConfig()
	cfg.Timeout = a.opts.timeout
	cfg.YouTubeTimeout = a.opts.youtubeTimeout
	cfg.UserAgent = a.opts.userAgent
	cfg.RateLimit = a.opts.rateLimit
	cfg.RespectRobots = a.opts.respectRobots
	if a.opts.retries > 0 {
		cfg.Retry = linkcheck.DefaultRetryPolicy()
		cfg.Retry.MaxRetries = a.opts.retries
	}

	opts := []linkcheck.Option{
		linkcheck.WithLogger(a.logger),
		linkcheck.WithRecorder(a.recorder),
		linkcheck.WithPolicy(a.policy),
	}
	if httpTransport != nil {
		opts = append(opts, linkcheck.WithHTTPClient(&http.Client{Transport: httpTransport}))
	}
	return linkcheck.New(cfg, opts...)
}

func (a *app) mender(checker linkcheck.Checker, extra ...mend.Option) *mend.Mender {
	opts := []mend.Option{
		mend.WithFinder(alternative.New(a.policy, alternative.WithLogger(a.logger))),
		mend.WithLogger(a.logger),
		mend.WithRecorder(a.recorder),
		mend.WithConcurrency(a.opts.concurrency),
	}
	return mend.New(checker, append(opts, extra...)...)
}

// close flushes metrics and logs.
func (a *app) close() error {
	var errs []error
	if a.registry != nil {
		errs = append(errs, metrics.WriteTextfile(a.registry, a.opts.metricsFile))
	}
	// Sync on stderr fails on some platforms; nothing to do about it.
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
