package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"csv2ics/internal/config"
	"csv2ics/internal/ics"
	appLog "csv2ics/internal/log"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify FILE",
		Short: "Parse a generated .ics file and report its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				appLog.Critical("cannot read calendar", err, "file", args[0])
				return err
			}

			doc, err := ics.ParseDocument(body)
			if err != nil {
				appLog.Critical("calendar is not well-formed", err, "file", args[0])
				return err
			}
			if len(doc.Timezones) != 1 {
				err := fmt.Errorf("expected exactly one timezone block, found %d", len(doc.Timezones))
				appLog.Critical("calendar is not well-formed", err, "file", args[0])
				return err
			}

			out := cmd.OutOrStdout()
			for _, ev := range doc.Events {
				fmt.Fprintf(out, "%s  %s  %s\n", ics.FormatInstant(ev.Start), ev.UID, ev.Summary)
			}
			fmt.Fprintf(out, "%d events in %s\n", len(doc.Events), args[0])
			return nil
		},
	}
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config FILE",
		Short: "Write a config file with the default settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				err := fmt.Errorf("%s already exists", args[0])
				appLog.Error("refusing to overwrite config", err)
				return err
			}
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				appLog.Error("failed to write config", err, "config_path", args[0])
				return err
			}
			appLog.Info("config written", "config_path", args[0])
			return nil
		},
	}
}
