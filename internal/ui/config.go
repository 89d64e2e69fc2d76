package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.
The admin PIN is managed with 'horario pin'.

Example:
  horario config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runConfigInteractive(config.DefaultConfigPath())
		},
	}
}

func (a *App) runConfigInteractive(configPath string) error {
	fmt.Fprintf(a.out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintln(a.out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(a.out, "Created %s\n\n", configPath)
	}

	printConfig(a.out, cfg)

	if !a.confirm("\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.School.Weekdays = a.promptSlice("School weekdays (comma-separated)", cfg.School.Weekdays)
	cfg.Storage.DBPath = a.promptValue("Database path", cfg.Storage.DBPath)
	cfg.LLM.Provider = a.promptValue("LLM provider", cfg.LLM.Provider)
	cfg.LLM.Model = a.promptValue("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = a.promptValue("LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.UI.Theme = a.promptTheme(cfg.UI.Theme)
	cfg.Alerts.Enabled = a.promptBool("Ring the bell", cfg.Alerts.Enabled)
	cfg.Alerts.BellDuration = a.promptValue("Bell duration", cfg.Alerts.BellDuration)
	cfg.Alerts.BreakEndDuration = a.promptValue("Bell duration at the end of a break", cfg.Alerts.BreakEndDuration)
	cfg.Server.Addr = a.promptValue("HTTP listen address", cfg.Server.Addr)
	cfg.Log.Level = a.promptValue("Log level", cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(a.out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	pin := "(not set)"
	if cfg.HasPIN() {
		pin = "(set)"
	}
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[school]")
	fmt.Fprintf(w, "  weekdays           = %s\n", strings.Join(cfg.School.Weekdays, ", "))
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path            = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider           = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model              = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url           = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme              = %s\n", cfg.UI.Theme)
	fmt.Fprintln(w, "\n[alerts]")
	fmt.Fprintf(w, "  enabled            = %t\n", cfg.Alerts.Enabled)
	fmt.Fprintf(w, "  bell_duration      = %s\n", cfg.Alerts.BellDuration)
	fmt.Fprintf(w, "  break_end_duration = %s\n", cfg.Alerts.BreakEndDuration)
	fmt.Fprintln(w, "\n[admin]")
	fmt.Fprintf(w, "  pin_hash           = %s\n", pin)
	fmt.Fprintln(w, "\n[server]")
	fmt.Fprintf(w, "  addr               = %s\n", cfg.Server.Addr)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level              = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  format             = %s\n", cfg.Log.Format)
	fmt.Fprintf(w, "  path               = %s\n", cfg.Log.Path)
}

func (a *App) promptValue(label, current string) string {
	prompt := fmt.Sprintf("  %s: ", label)
	if current != "" {
		prompt = fmt.Sprintf("  %s [%s]: ", label, current)
	}
	input, err := a.readLine(prompt)
	if err != nil || input == "" {
		return current
	}
	return input
}

func (a *App) promptSlice(label string, current []string) []string {
	input, err := a.readLine(fmt.Sprintf("  %s [%s]: ", label, strings.Join(current, ", ")))
	if err != nil || input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func (a *App) promptBool(label string, current bool) bool {
	for {
		value := a.promptValue(label+" (true/false)", strconv.FormatBool(current))
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
		fmt.Fprintf(a.out, "  Invalid value %q. Use true or false.\n", value)
	}
}

func (a *App) promptTheme(current string) string {
	options := strings.Join(theme.Available(), ", ") + ", or a .toml file"
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(a.promptValue(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(a.out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
