package cmd

import (
	"fmt"
	"sort"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/typedconfirm/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage judge API profiles",
	Long:  `Manage the OpenAI-compatible API profiles the judge check uses.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Active Profile: %s\n\n", cfg.ActiveProfile)
		for _, name := range profileNames(cfg, "") {
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Fprintf(out, "  %s%s\n", name, marker)
			describeProfile(cmd, cfg.Profiles[name], "    ")
		}
		return nil
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name := cfg.ActiveProfile
		if len(args) > 0 {
			name = args[0]
		}
		profile, ok := cfg.Profiles[name]
		if !ok {
			return fmt.Errorf("%w: %q", config.ErrProfileNotFound, name)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile: %s\n", name)
		describeProfile(cmd, profile, "")
		return nil
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name := ""
		if len(args) > 0 {
			name = args[0]
		} else if name, err = (&promptui.Prompt{Label: "Profile name"}).Run(); err != nil {
			return err
		}
		if _, exists := cfg.Profiles[name]; exists {
			return fmt.Errorf("profile %q already exists", name)
		}

		profile, err := promptProfile(config.Profile{Model: config.DefaultModel})
		if err != nil {
			return err
		}
		cfg.Profiles[name] = profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' added successfully!\n", name)
		return nil
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name, err := profileArg(cfg, args, "Select profile to edit", "")
		if err != nil {
			return err
		}

		profile, err := promptProfile(cfg.Profiles[name])
		if err != nil {
			return err
		}
		cfg.Profiles[name] = profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' updated successfully!\n", name)
		return nil
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name, err := profileArg(cfg, args, "Select profile to delete", "")
		if err != nil {
			return err
		}

		// Deleting credentials is guarded like any other destructive action.
		confirmed, err := confirmTyped(cmd, cfg, name)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
			return nil
		}

		delete(cfg.Profiles, name)
		if len(cfg.Profiles) == 0 {
			cfg.Profiles["default"] = config.Profile{Model: config.DefaultModel}
		}
		if cfg.ActiveProfile == name {
			cfg.ActiveProfile = profileNames(cfg, "")[0]
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' deleted successfully!\n", name)
		return nil
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name, err := profileArg(cfg, args, "Select profile to switch to", cfg.ActiveProfile)
		if err != nil {
			return err
		}
		if err := cfg.SwitchProfile(name); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile '%s'\n", name)
		return nil
	},
}

// profileNames returns the sorted profile names, leaving out skip.
func profileNames(cfg *config.File, skip string) []string {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		if name != skip {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// profileArg returns the named profile, or lets the user pick one.
func profileArg(cfg *config.File, args []string, label, skip string) (string, error) {
	if len(args) > 0 {
		if _, ok := cfg.Profiles[args[0]]; !ok {
			return "", fmt.Errorf("%w: %q", config.ErrProfileNotFound, args[0])
		}
		return args[0], nil
	}

	names := profileNames(cfg, skip)
	if len(names) == 0 {
		return "", fmt.Errorf("no profiles to choose from")
	}
	_, name, err := (&promptui.Select{Label: label, Items: names}).Run()
	return name, err
}

// promptProfile asks for every field, offering the current values.
func promptProfile(p config.Profile) (config.Profile, error) {
	var err error
	if p.APIKey, err = (&promptui.Prompt{Label: "API Key", Default: p.APIKey, Mask: '*'}).Run(); err != nil {
		return p, err
	}
	if p.Model, err = (&promptui.Prompt{Label: "Model", Default: p.Model}).Run(); err != nil {
		return p, err
	}
	if p.BaseURL, err = (&promptui.Prompt{Label: "Base URL (optional)", Default: p.BaseURL}).Run(); err != nil {
		return p, err
	}
	return p, nil
}

func describeProfile(cmd *cobra.Command, p config.Profile, indent string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%sModel: %s\n", indent, p.Model)
	if p.BaseURL != "" {
		fmt.Fprintf(out, "%sBase URL: %s\n", indent, p.BaseURL)
	}
	key := "Not set"
	if p.APIKey != "" {
		key = "Set (hidden)"
	}
	fmt.Fprintf(out, "%sAPI Key: %s\n", indent, key)
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
