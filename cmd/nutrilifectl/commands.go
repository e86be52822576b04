package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules/diary"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules/notifications"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules/profile"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules/reminders"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func connect() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, database.DB, nil
}

// schemaModules lists every module for migration. Services are nil because
// only Models is called.
func schemaModules() []modules.Module {
	return []modules.Module{
		profile.New(nil),
		diary.New(nil),
		reminders.New(nil, nil),
		notifications.New(nil),
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := connect()
			if err != nil {
				return err
			}
			if err := database.MigrateShared(db); err != nil {
				return fmt.Errorf("shared migration: %w", err)
			}
			mods := schemaModules()
			if err := database.MigrateModels(db, modules.Models(mods...)); err != nil {
				return fmt.Errorf("module migration: %w", err)
			}
			for _, m := range mods {
				fmt.Fprintf(cmd.OutOrStdout(), "migrated %s (%d tables)\n", m.ID(), len(m.Models()))
			}
			return nil
		},
	}
}

func newBMICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bmi WEIGHT_KG HEIGHT_CM",
		Short: "Compute and classify a body mass index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid weight %q", args[0])
			}
			height, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid height %q", args[1])
			}
			bmi := wellness.BodyMassIndex(&weight, &height)
			if bmi == nil {
				return fmt.Errorf("weight and height must be positive")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.1f %s\n", *bmi, wellness.ClassifyBMI(*bmi))
			return nil
		},
	}
}

func newDueCmd() *cobra.Command {
	var (
		userFlag string
		atFlag   string
	)
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List a user's reminders that fire at a given minute",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			at := time.Now()
			if atFlag != "" {
				if at, err = time.Parse(time.RFC3339, atFlag); err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
			}

			cfg, db, err := connect()
			if err != nil {
				return err
			}
			profiles := profile.NewService(db, cfg.Location(), func() int { return cfg.DefaultDailyGoal })
			loc, err := profiles.Location(userID)
			if err != nil {
				return err
			}

			due, err := reminders.NewService(db).DueAt(userID, at, loc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", at.In(loc).Format("Mon 15:04"), loc)
			if len(due) == 0 {
				fmt.Fprintln(out, "no reminders due")
			}
			for _, r := range due {
				fmt.Fprintf(out, "%s  %s  %s\n", r.Time, r.Activity, r.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userFlag, "user", "", "user ID")
	cmd.Flags().StringVar(&atFlag, "at", "", "RFC3339 instant (default now)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
