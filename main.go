package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"QPaint/internal/config"
	"QPaint/internal/export"
	"QPaint/internal/logging"
	qnet "QPaint/internal/net"
	"QPaint/internal/state"
	"QPaint/internal/ui"
)

const appID = "io.qpaint.app"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		slog.Error("qpaint command failed", "err", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	share      bool
	port       int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "qpaint [qpaint://host:port]",
		Short: "Vector paint tool with SVG, PNG and PDF export",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(opts.configPath)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			// Share links open a viewer, like "qpaint join".
			if len(args) == 1 {
				if !strings.HasPrefix(args[0], qnet.CustomURLScheme) {
					return fmt.Errorf("unexpected argument %q", args[0])
				}
				return runClient(cmd.Context(), cfg, args[0])
			}
			if cmd.Flags().Changed("share") {
				cfg.Share.Enabled = opts.share
			}
			if cmd.Flags().Changed("port") {
				cfg.Share.Port = opts.port
			}
			return runHost(cfg)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.qpaint/config.toml)")
	root.Flags().BoolVar(&opts.share, "share", false, "serve the drawing to live viewers")
	root.Flags().IntVar(&opts.port, "port", 8888, "live share port")

	root.AddCommand(newJoinCmd(opts))
	root.AddCommand(newBrowseCmd())
	root.AddCommand(newConvertCmd(opts))
	return root
}

func newJoinCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "join <qpaint://host:port>",
		Short: "Open a read-only view of a shared drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			return runClient(cmd.Context(), cfg, args[0])
		},
	}
}

func newBrowseCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List drawings shared on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			boards, err := qnet.Browse(cmd.Context(), timeout)
			if err != nil {
				return err
			}
			if len(boards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no shared drawings found")
				return nil
			}
			for _, b := range boards {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.Name, b.Link())
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "how long to listen for answers")
	return cmd
}

func newConvertCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <drawing.svg> <output.png|jpg|gif|bmp|tiff>",
		Short: "Rasterize a saved SVG drawing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if err := export.Convert(args[0], args[1], cfg.Canvas.Background); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return nil
		},
	}
}

func setupLogging(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	_, err = logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	return err
}

func pageFor(cfg *config.Config) export.Canvas {
	return export.Canvas{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height, Background: cfg.Canvas.Background}
}

func runHost(cfg *config.Config) error {
	logger := slog.Default()
	logger.Info("starting editor", "share", cfg.Share.Enabled)

	a := app.NewWithID(appID)
	session := state.NewSession(cfg.Settings())
	editor := ui.NewEditor(a, session, pageFor(cfg), logger)

	if cfg.Share.Enabled {
		stop, err := startSharing(cfg, session, editor, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	editor.ShowAndRun()
	return nil
}

// startSharing serves the session to viewers and returns a function that
// stops the server and the mDNS advertisement.
func startSharing(cfg *config.Config, session *state.Session, editor *ui.Editor, logger *slog.Logger) (func(), error) {
	hub := qnet.NewHub(logger)
	session.OnOp = hub.Publish

	srv, err := qnet.Listen(fmt.Sprintf(":%d", cfg.Share.Port), hub, logger)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := srv.Serve(); err != nil {
			logger.Error("share server stopped", "err", err)
		}
	}()

	host := "127.0.0.1"
	if ip, err := qnet.LANAddress(); err != nil {
		logger.Warn("share link uses loopback, only this machine can join", "err", err)
	} else {
		host = ip.String()
	}
	link := qnet.ShareLink(host, srv.Port())
	editor.SetStatus("Sharing at " + link)
	logger.Info("sharing drawing", "link", link)

	stopAdvert := func() {}
	if cfg.Share.Advertise {
		adv, err := qnet.Advertise(srv.Port())
		if err != nil {
			logger.Warn("mdns advertise failed", "err", err)
		} else {
			stopAdvert = func() { adv.Shutdown() }
		}
	}

	return func() {
		stopAdvert()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("share server shutdown", "err", err)
		}
	}, nil
}

func runClient(ctx context.Context, cfg *config.Config, link string) error {
	logger := slog.Default()
	logger.Info("starting viewer", "link", link)
	if _, err := qnet.ParseLink(link); err != nil {
		return err
	}

	a := app.NewWithID(appID)
	replica := state.NewReplica(logger)
	viewer := ui.NewViewer(a, "Q-PAINT viewer - "+strings.TrimPrefix(link, qnet.CustomURLScheme), replica, pageFor(cfg))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		// Give the window time to appear before the first status update.
		time.Sleep(500 * time.Millisecond)
		viewer.SetStatus("Connecting to " + link)
		if err := qnet.Join(ctx, link, replica, viewer.Reload, logger); err != nil {
			viewer.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
			return
		}
		viewer.SetStatus("Host closed the drawing")
	}()

	viewer.ShowAndRun()
	return nil
}
