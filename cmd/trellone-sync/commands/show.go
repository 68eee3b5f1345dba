package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"trellone-sync/internal/client"
	"trellone-sync/internal/config"
	"trellone-sync/internal/domain"
	"trellone-sync/internal/printer"
)

var showBoardID string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Fetch a board once and print its columns and cards",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showBoardID, "board", "b", "", "board id to print")
	_ = showCmd.MarkFlagRequired("board")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), "check "+configPath)
	}

	logger, err := initLogger("error")
	if err != nil {
		return err
	}
	defer logger.Sync()

	api := client.NewBoardClient(cfg.API.BaseURL, cfg.API.AccessToken, cfg.API.Timeout, logger, nil)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.API.Timeout)
	defer cancel()

	board, err := api.GetBoard(ctx, showBoardID)
	if err != nil {
		return printer.Error("Failed to fetch board "+showBoardID, err.Error(),
			"check api.base_url and api.access_token")
	}

	printer.Board(os.Stdout, domain.NormalizeBoard(board))
	return nil
}
