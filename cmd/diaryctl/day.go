package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/photodiary/internal/server/services"
	"github.com/spf13/cobra"
)

func newDayCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "day DATE",
		Short: "Show the entry and collage of a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			return app.withService(cmd, func(svc *services.DiaryService) error {
				day, err := svc.GetDay(cmd.Context(), app.userID, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), day)
			})
		},
	}
}

func newSaveCmd(app *cliApp) *cobra.Command {
	var (
		content  string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "save DATE",
		Short: "Create or replace the entry text of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			if fromFile != "" {
				var (
					b   []byte
					err error
				)
				if fromFile == "-" {
					b, err = io.ReadAll(cmd.InOrStdin())
				} else {
					b, err = os.ReadFile(fromFile)
				}
				if err != nil {
					return fmt.Errorf("read content: %w", err)
				}
				content = string(b)
			}
			return app.withService(cmd, func(svc *services.DiaryService) error {
				entry, err := svc.SaveEntry(cmd.Context(), app.userID, args[0], content)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entry)
			})
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "entry text")
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "read entry text from a file, - for stdin")
	cmd.MarkFlagsMutuallyExclusive("content", "file")
	return cmd
}
