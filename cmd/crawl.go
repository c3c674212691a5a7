package cmd

import (
	"context"
	"fmt"

	"github.com/kasuboski/vodsync/config"
	"github.com/kasuboski/vodsync/pkg/browser"
	"github.com/kasuboski/vodsync/pkg/fetch"
	vodio "github.com/kasuboski/vodsync/pkg/io"
	"github.com/kasuboski/vodsync/pkg/logger"
	"github.com/kasuboski/vodsync/pkg/manager"
	"github.com/kasuboski/vodsync/pkg/scrape"
	"github.com/kasuboski/vodsync/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "download new free episodes from every tracked program",
	Long: `crawl resolves every tracked program URL into its listing pages, scrapes
the full episode listings, selects the free episodes not yet recorded in the
download log, downloads them, and records them. With --dry-run it only prints
what it would download.`,
	Run: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)
	crawlCmd.Flags().String("urls", "", "path of the tracked URL store")
	crawlCmd.Flags().String("dst", "", "destination root for downloaded episodes")
	crawlCmd.Flags().String("browser-path", "", "browser binary to drive")
	crawlCmd.Flags().Bool("dry-run", false, "report targets without downloading or recording")
}

func runCrawl(cmd *cobra.Command, args []string) {
	log := logger.Get()
	ctx := logger.WithCtx(context.Background(), log)

	cfg, err := config.New(viper.GetViper())
	if err != nil {
		log.Fatal("failed to read configurations", zap.Error(err))
	}

	if urls, _ := cmd.Flags().GetString("urls"); urls != "" {
		cfg.Crawl.URLStorePath = urls
	}
	if dst, _ := cmd.Flags().GetString("dst"); dst != "" {
		cfg.Crawl.DestDir = dst
	}
	if browserPath, _ := cmd.Flags().GetString("browser-path"); browserPath != "" {
		cfg.Browser.Path = browserPath
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	session, err := browser.NewChromeSession(ctx, browser.Options{
		ExecPath:  cfg.Browser.Path,
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
	})
	if err != nil {
		log.Fatal("failed to start browser session", zap.Error(err))
	}
	defer session.Close()

	fetcher, err := fetch.NewFetcherFactory().NewFetcher(cfg.Fetcher.Implementation, fetch.ExecRunner{}, fetch.Policy{
		MaxRetries: cfg.Fetcher.MaxRetries,
		Backoff:    cfg.Fetcher.Backoff,
	})
	if err != nil {
		session.Close()
		log.Fatal("failed to create fetcher", zap.Error(err))
	}

	fs := &vodio.StoreFileSystem{}
	scraper := scrape.New(session, cfg.Crawl.FreeLabel, scrape.WithScrollInterval(cfg.Crawl.ScrollInterval))
	m := manager.New(
		storage.NewURLStore(fs, cfg.Crawl.URLStorePath),
		storage.NewLogStore(fs, cfg.Crawl.LogPath),
		scraper,
		fetcher,
		fs,
	)

	result, err := m.Crawl(ctx, manager.Options{
		DestDir:     cfg.Crawl.DestDir,
		Concurrency: cfg.Crawl.Concurrency,
		DryRun:      dryRun,
	})
	if err != nil {
		session.Close()
		log.Fatal("crawl aborted", zap.Error(err))
	}

	if result.DryRun {
		for _, t := range result.Targets {
			fmt.Printf("%s\t%s\t%s\n", t.Program.Title, t.Episode.Subtitle, t.Episode.VideoURL)
		}
	}
}
