package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/himuexe/Utsavia/mongodb"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check database connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := connectMongo(ctx); err != nil {
			return err
		}
		defer mongodb.CloseMongoDB(ctx)

		start := time.Now()
		if err := mongodb.Ping(ctx); err != nil {
			return fmt.Errorf("mongodb unreachable: %w", err)
		}
		fmt.Printf("mongodb ok (%s)\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
