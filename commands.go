package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/kattameya/rockdash/internal/demo"
	"github.com/kattameya/rockdash/route"
	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"
)

const shutdownTimeout = 5 * time.Second

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var current string
	cmd := &cobra.Command{
		Use:   "resolve URL",
		Short: "Show how a dashboard URL maps to a screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			origin, err := cfg.Origin()
			if err != nil {
				return err
			}
			cur, err := route.ParseScreenID(current)
			if err != nil {
				return err
			}
			sync := route.NewSynchronizer(reg, origin)

			raw := args[0]
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "url:     %s\n", raw)
			fmt.Fprintf(out, "allowed: %t\n", sync.Gate(raw))
			if path, ok := route.ExtractPath(raw); ok {
				fmt.Fprintf(out, "path:    %s\n", path)
				if id, ok := reg.Resolve(path); ok {
					fmt.Fprintf(out, "screen:  %s\n", id)
				} else {
					fmt.Fprintln(out, "screen:  (unmapped)")
				}
			}
			fmt.Fprintf(out, "action:  %s\n", sync.OnNavigate(route.Event{URL: raw}, cur))
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", route.Login.String(), "screen currently shown")
	return cmd
}

func newScreensCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "screens",
		Short: "List the configured screens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSCREEN\tPATH\tTITLE\tHEADER")
			for i, e := range reg.Entries() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", i+1, e.Screen, e.Path, e.Title, e.Header)
			}
			return tw.Flush()
		},
	}
}

func newQRCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "qr [path]",
		Short: "Print a QR code for a dashboard page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			origin, err := cfg.Origin()
			if err != nil {
				return err
			}
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			url := origin.URL(path)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, url)
			qrterminal.GenerateHalfBlock(url, qrterminal.L, out)
			return nil
		},
	}
}

func newDemoCmd(opts *rootOptions) *cobra.Command {
	var addr, username, password string
	var sessionTTL time.Duration
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve a local mock dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if username == "" && password == "" && cfg.Login.Configured() {
				username, password = cfg.Login.Username, cfg.Login.Password
			}
			if username == "" {
				username = "admin"
			}
			if password == "" {
				password = "admin"
			}
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx).With("component", "demo")
			srv, err := demo.New(demo.Config{
				AppName:    cfg.AppName,
				Username:   username,
				Password:   password,
				SessionTTL: sessionTTL,
				Logger:     logger,
			})
			if err != nil {
				return err
			}
			logger.Info("demo dashboard listening", "addr", addr, "username", username)
			return listenAndServe(ctx, addr, srv, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&username, "username", "", "login username (default from config, else admin)")
	cmd.Flags().StringVar(&password, "password", "", "login password (default from config, else admin)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 12*time.Hour, "session lifetime")
	return cmd
}

// listenAndServe runs handler on addr until ctx is cancelled.
func listenAndServe(ctx context.Context, addr string, handler http.Handler, logger pslog.Logger) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  handler,
		ErrorLog: pslog.LogLoggerWithLevel(logger, pslog.ErrorLevel),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
