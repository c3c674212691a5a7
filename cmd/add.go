package cmd

import (
	"context"

	"github.com/kasuboski/vodsync/config"
	vodio "github.com/kasuboski/vodsync/pkg/io"
	"github.com/kasuboski/vodsync/pkg/logger"
	"github.com/kasuboski/vodsync/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <URL>",
	Short: "track a new program URL",
	Long:  `add prepends a program page URL to the tracked URL store.`,
	Args:  cobra.ExactArgs(1),
	Run:   runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	log := logger.Get()
	ctx := logger.WithCtx(context.Background(), log)

	cfg, err := config.New(viper.GetViper())
	if err != nil {
		log.Fatal("failed to read configurations", zap.Error(err))
	}

	store := storage.NewURLStore(&vodio.StoreFileSystem{}, cfg.Crawl.URLStorePath)
	if err := store.Add(ctx, args[0]); err != nil {
		log.Fatal("failed to add url", zap.Error(err))
	}
}
