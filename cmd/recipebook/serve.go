package main

import (
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"recipebook/internal/bot"
	"recipebook/internal/catalog"
	"recipebook/internal/clipboard"
	"recipebook/internal/controller"
	"recipebook/internal/importer"
	"recipebook/internal/view"
	"recipebook/internal/web"
)

var ephemeral bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog page",
	Long: `Serve the catalog page on LISTEN_ADDR until interrupted.

When TELEGRAM_BOT_TOKEN is set the Telegram bot starts alongside the page
and both share the same collection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		// --- Initialize Components ---
		log.Info("Initializing components...")

		store, closeStore, err := openStore(cfg, log, ephemeral)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		doc := view.NewDocument(view.DefaultElementIDs...)
		ui, err := view.Bind(doc)
		if err != nil {
			return err
		}

		var clip clipboard.Writer = clipboard.Noop{}
		if cfg.ClipboardEnabled {
			clip = clipboard.System{}
		}

		repo := catalog.NewRepository(ctx, store, log)
		ctrl := controller.New(repo, store, view.NewRenderer(), ui, clip, log, controller.Options{
			SearchDebounce: cfg.SearchDebounce,
		})
		ctrl.Start(ctx)

		imp := importer.New(importer.NewRodFetcher(log, cfg.ImportTimeout))
		srv := web.NewServer(ctrl, doc, web.Options{
			ListenAddr:    cfg.ListenAddr,
			MaxImageBytes: cfg.MaxImageBytes,
			Importer:      imp,
		}, log)

		// --- Application Startup ---
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			ctrl.Run(ctx)
			return nil
		})
		g.Go(func() error {
			return srv.ListenAndServe(ctx, cfg.ListenAddr)
		})

		if cfg.BotEnabled() {
			botHandler, err := bot.NewHandler(cfg, ctrl, imp, log)
			if err != nil {
				log.WithError(err).Error("Telegram bot disabled")
			} else {
				g.Go(func() error {
					botHandler.Start(ctx)
					return nil
				})
			}
		}

		log.WithFields(logrus.Fields{
			"addr":      cfg.ListenAddr,
			"ephemeral": ephemeral,
			"bot":       cfg.BotEnabled(),
		}).Info("recipebook is running. Press Ctrl+C to exit.")

		err = g.Wait()
		// --- Graceful Shutdown ---
		log.Info("recipebook shut down.")
		return err
	},
}

func init() {
	serveCmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep recipes in memory only")
}
