package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lounge/internal/storage"
)

var flagPrefsScope string

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change stored preferences",
	Long: `Inspect and edit the preferences database.

Local sessions use the empty scope; SSH sessions are scoped by user name.

Examples:
  lounge prefs list
  lounge prefs dark on
  lounge prefs get darkMode --scope alice
  lounge prefs unset darkMode`,
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List preferences in a scope",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		withStore(func(store *storage.Store) error {
			prefs, err := store.ListPreferences(flagPrefsScope)
			if err != nil {
				return err
			}
			if len(prefs) == 0 {
				fmt.Println("No preferences stored.")
				return nil
			}

			fmt.Printf("  %-20s  %-20s  %s\n", "Key", "Value", "Updated")
			fmt.Printf("  %-20s  %-20s  %s\n", "---", "-----", "-------")
			for _, p := range prefs {
				fmt.Printf("  %-20s  %-20s  %s\n", p.Key, p.Value, p.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one preference",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withStore(func(store *storage.Store) error {
			value, ok, err := store.GetPreference(flagPrefsScope, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("preference %q is not set", args[0])
			}
			fmt.Println(value)
			return nil
		})
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a preference",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		withStore(func(store *storage.Store) error {
			return store.SetPreference(flagPrefsScope, args[0], args[1])
		})
	},
}

var prefsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a preference",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withStore(func(store *storage.Store) error {
			return store.DeletePreference(flagPrefsScope, args[0])
		})
	},
}

var prefsDarkCmd = &cobra.Command{
	Use:       "dark [on|off]",
	Short:     "Show or set the chat dark mode",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	Run: func(_ *cobra.Command, args []string) {
		withStore(func(store *storage.Store) error {
			if len(args) == 0 {
				enabled, err := store.DarkMode(flagPrefsScope)
				if err != nil {
					return err
				}
				fmt.Println(onOff(enabled))
				return nil
			}

			switch args[0] {
			case "on":
				return store.SetDarkMode(flagPrefsScope, true)
			case "off":
				return store.SetDarkMode(flagPrefsScope, false)
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
		})
	},
}

func init() {
	prefsCmd.PersistentFlags().StringVar(&flagPrefsScope, "scope", "", "Preference scope (SSH user name, empty for local)")
	prefsCmd.AddCommand(prefsListCmd, prefsGetCmd, prefsSetCmd, prefsUnsetCmd, prefsDarkCmd)
}

// withStore opens the preferences database, runs fn and exits on error.
func withStore(fn func(*storage.Store) error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening preferences database: %v\n", err)
		os.Exit(1)
	}

	err = fn(store)
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
