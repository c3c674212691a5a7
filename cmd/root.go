package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vodsync",
	Short: "incrementally download newly-published free VOD episodes",
	Long: `vodsync tracks program pages on a VOD platform and downloads the free
episodes it has not downloaded before. Completed downloads are recorded in a
log so subsequent runs only fetch what is new.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "vodsync.yaml", "config file")
}

func initConfig() {
	// A missing config file is fine; defaults and env cover everything.
	if _, err := os.Stat(cfgFile); err == nil {
		viper.SetConfigFile(cfgFile)
	}

	viper.SetEnvPrefix("VODSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", ""))
	viper.AutomaticEnv()

	viper.SetDefault("browser.path", "")
	viper.SetDefault("browser.headless", true)
	viper.SetDefault("browser.userAgent", "")

	viper.SetDefault("fetcher.implementation", "streamlink")
	viper.SetDefault("fetcher.maxRetries", 0)
	viper.SetDefault("fetcher.backoff", time.Second)

	viper.SetDefault("crawl.urlStorePath", "urls.json")
	viper.SetDefault("crawl.logPath", "log.json")
	viper.SetDefault("crawl.destDir", ".")
	viper.SetDefault("crawl.freeLabel", "無料")
	viper.SetDefault("crawl.concurrency", 0)
	viper.SetDefault("crawl.scrollInterval", 500*time.Millisecond)
}
