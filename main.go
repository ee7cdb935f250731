package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/google/uuid"
	"github.com/kattameya/rockdash/app"
	"github.com/kattameya/rockdash/browser"
	"github.com/kattameya/rockdash/config"
	"github.com/kattameya/rockdash/internal"
	"github.com/kattameya/rockdash/route"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("rockdash failed")
		return 1
	}
	return 0
}

type rootOptions struct {
	configPath string
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: config.NewViper()}
	root := &cobra.Command{
		Use:           "rockdash",
		Short:         "Terminal shell for the rock dashboard",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to config file (default "+config.DefaultPath()+")")
	pf.String("base-url", "", "dashboard origin, e.g. https://dash.example.com")
	pf.String("log-level", "", "log level: trace, debug, info, warn, error")
	pf.String("log-file", "", "log file path")
	pf.Bool("headless", true, "run Chrome without a window")
	for key, name := range map[string]string{
		config.KeyBaseURL:  "base-url",
		config.KeyLogLevel: "log-level",
		config.KeyLogFile:  "log-file",
		config.KeyHeadless: "headless",
	} {
		_ = opts.v.BindPFlag(key, pf.Lookup(name))
	}

	root.AddCommand(newResolveCmd(opts))
	root.AddCommand(newScreensCmd(opts))
	root.AddCommand(newQRCmd(opts))
	root.AddCommand(newDemoCmd(opts))

	return root
}

// load reads the config file and applies flag and environment overrides.
// Without --config a missing default file falls back to the built-in table.
func (o *rootOptions) load() (*config.Config, error) {
	path := o.configPath
	allowMissing := path == ""
	if allowMissing {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, allowMissing)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(o.v); err != nil {
		return nil, fmt.Errorf("applying overrides: %w", err)
	}
	return cfg, nil
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	logger = logger.With("run", uuid.NewString())
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	origin, err := cfg.Origin()
	if err != nil {
		return err
	}
	sync := route.NewSynchronizer(reg, origin)

	var started atomic.Pointer[browser.Browser]
	connect := func(ctx context.Context) (*internal.Services, error) {
		b, err := browser.New(ctx, browser.Options{
			Headless:        cfg.Browser.Headless,
			NoSandbox:       cfg.Browser.NoSandbox,
			ExecPath:        cfg.Browser.ExecPath,
			UserAgent:       cfg.Browser.UserAgent,
			JavaScript:      cfg.Browser.JavaScript,
			Cache:           cfg.Browser.Cache,
			InjectStyles:    cfg.Browser.InjectStyles,
			PageLoadTimeout: cfg.Browser.PageLoadTimeout,
			Logger:          logger,
		})
		if err != nil {
			return nil, err
		}
		started.Store(b)
		return internal.NewServices(b.Opener(), sync), nil
	}

	root := app.New(app.Params{
		Connect:  connect,
		AppName:  cfg.AppName,
		StaleTTL: cfg.StaleTTL,
		Login:    app.Credentials{Username: cfg.Login.Username, Password: cfg.Login.Password},
		Preload:  cfg.Browser.Preload,
		Logger:   logger,
		Context:  ctx,
	})

	vxApp, err := vxfw.NewApp(vaxis.Options{})
	if err != nil {
		return fmt.Errorf("starting terminal: %w", err)
	}
	root.SetPostEvent(vxApp.PostEvent)

	logger.Info("rockdash started", "base_url", origin.String(), "screens", len(reg.Entries()))
	runErr := vxApp.Run(root)

	root.Close()
	if b := started.Load(); b != nil {
		b.Close()
	}
	logger.Info("rockdash stopped")
	return runErr
}
