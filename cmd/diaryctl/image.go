package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/photodiary/internal/server/models"
	"github.com/dmitrijs2005/photodiary/internal/server/services"
	"github.com/spf13/cobra"
)

func newUploadCmd(app *cliApp) *cobra.Command {
	var (
		date    string
		caption string
	)

	cmd := &cobra.Command{
		Use:   "upload PATH",
		Short: "Add an image file to a date's collage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			return app.withService(cmd, func(svc *services.DiaryService) error {
				p, err := svc.UploadImage(cmd.Context(), app.userID, date, data, filepath.Base(args[0]), caption)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), p)
			})
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "diary date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&caption, "caption", "", "image caption")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newMoveCmd(app *cliApp) *cobra.Command {
	var (
		x, y, z         int
		rotation, scale float64
		tiltX, tiltY    float64
		caption         string
	)

	cmd := &cobra.Command{
		Use:   "move FILENAME",
		Short: "Change the transform or caption of a placed image",
		Long:  "Only the flags given on the command line are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}

			var patch models.PlacementPatch
			flags := cmd.Flags()
			if flags.Changed("x") {
				patch.PositionX = &x
			}
			if flags.Changed("y") {
				patch.PositionY = &y
			}
			if flags.Changed("z") {
				patch.ZIndex = &z
			}
			if flags.Changed("rotation") {
				patch.Rotation = &rotation
			}
			if flags.Changed("scale") {
				patch.Scale = &scale
			}
			if flags.Changed("tilt-x") {
				patch.TiltX = &tiltX
			}
			if flags.Changed("tilt-y") {
				patch.TiltY = &tiltY
			}
			if flags.Changed("caption") {
				patch.Caption = &caption
			}
			if patch.Empty() {
				return errors.New("nothing to change: give at least one of --x --y --z --rotation --scale --tilt-x --tilt-y --caption")
			}

			return app.withService(cmd, func(svc *services.DiaryService) error {
				if err := svc.MoveImage(cmd.Context(), app.userID, args[0], patch); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "moved %s\n", args[0])
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&x, "x", 0, "left offset in pixels")
	f.IntVar(&y, "y", 0, "top offset in pixels")
	f.IntVar(&z, "z", 0, "stacking order")
	f.Float64Var(&rotation, "rotation", 0, "rotation in degrees")
	f.Float64Var(&scale, "scale", 0, "scale factor, must be positive")
	f.Float64Var(&tiltX, "tilt-x", 0, "tilt around the x axis in degrees")
	f.Float64Var(&tiltY, "tilt-y", 0, "tilt around the y axis in degrees")
	f.StringVar(&caption, "caption", "", "image caption")
	return cmd
}

func newRemoveCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "remove FILENAME",
		Short: "Remove an image from its collage and delete its file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			return app.withService(cmd, func(svc *services.DiaryService) error {
				if err := svc.RemoveImage(cmd.Context(), app.userID, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	}
}
