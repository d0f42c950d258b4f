// Package main runs the springbook user DAO against a local MySQL server.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/syuparn/springbook"
)

var (
	port   int
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()
)

var rootCmd = &cobra.Command{
	Use:          "springbook",
	Short:        "Exercise the springbook user DAO",
	SilenceUsage: true,
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Open and close one connection",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := springbook.NewDConnectionMaker(port).MakeConnection()
		if err != nil {
			return err
		}
		defer db.Close()

		logger.Info().Int("port", port).Msg("connected")
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Register a user and read it back",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func run(ctx context.Context) error {
	dao := springbook.NewUserDao(springbook.NewDConnectionMaker(port))

	if err := dao.DeleteAll(ctx); err != nil {
		return err
	}

	user := &springbook.User{
		ID:       "whiteship",
		Name:     "Keesun",
		Password: "married",
	}
	if err := dao.Add(ctx, user); err != nil {
		return err
	}
	logger.Info().Str("id", user.ID).Msg("user registered")

	found, err := dao.Get(ctx, user.ID)
	if err != nil {
		return err
	}
	logger.Info().
		Str("id", found.ID).
		Str("name", found.Name).
		Msg("user found")

	return nil
}

func init() {
	rootCmd.PersistentFlags().IntVar(&port, "port", springbook.DefaultPort, "MySQL port on localhost")
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}
