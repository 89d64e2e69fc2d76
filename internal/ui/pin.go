package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/config"
)

func (a *App) pinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Manage the admin PIN",
		Long: `The admin PIN guards every change to the timetable: the edit mode of
the board, the editing commands and the HTTP API. Only a bcrypt hash is
stored in the config file.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Set or change the admin PIN",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.setPIN(config.DefaultConfigPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the admin PIN (editing becomes open)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.clearPIN(config.DefaultConfigPath())
		},
	})

	return cmd
}

func (a *App) setPIN(configPath string) error {
	if err := a.authorize(); err != nil {
		return err
	}

	pin, err := a.readSecret("New PIN: ")
	if err != nil {
		return err
	}
	again, err := a.readSecret("Repeat PIN: ")
	if err != nil {
		return err
	}
	if pin != again {
		return errors.New("PINs do not match")
	}

	hash, err := auth.HashPIN(pin)
	if err != nil {
		return err
	}
	a.config.Admin.PINHash = hash
	if err := a.config.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintln(a.out, formatOK("Admin PIN saved."))
	return nil
}

func (a *App) clearPIN(configPath string) error {
	if !a.config.HasPIN() {
		fmt.Fprintln(a.out, "No admin PIN configured.")
		return nil
	}
	if err := a.authorize(); err != nil {
		return err
	}
	a.config.Admin.PINHash = ""
	if err := a.config.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintln(a.out, formatOK("Admin PIN removed. Editing is open."))
	return nil
}
