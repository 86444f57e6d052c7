package cmd

import (
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Rorical/typedconfirm/internal/config"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage modal presets",
	Long:  `Presets are named option sets layered over the default modal configuration.`,
}

var listPresetsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all presets",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		names := cfg.PresetNames()
		if len(names) == 0 {
			fmt.Println("No presets defined")
			return
		}
		sort.Strings(names)

		mode := "merged into"
		if !cfg.MergePresets {
			mode = "replacing sections of"
		}
		fmt.Printf("Presets (%s the defaults):\n", mode)
		for _, name := range names {
			marker := ""
			if name == cfg.ActivePreset {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
		}
	},
}

var showPresetCmd = &cobra.Command{
	Use:   "show [preset-name]",
	Short: "Show the configuration a preset resolves to",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		resolved, err := cfg.Resolve(name)
		if err != nil {
			log.Fatalf("Failed to resolve preset: %v", err)
		}

		out, err := yaml.Marshal(resolved)
		if err != nil {
			log.Fatalf("Failed to render preset: %v", err)
		}
		fmt.Print(string(out))
	},
}

var addPresetCmd = &cobra.Command{
	Use:   "add [preset-name]",
	Short: "Add a new preset",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var name string
		if len(args) > 0 {
			name = args[0]
		} else {
			prompt := promptui.Prompt{Label: "Preset name"}
			name, err = prompt.Run()
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}

		if _, exists := cfg.Presets[name]; exists {
			log.Fatalf("Preset '%s' already exists", name)
		}

		opts, err := promptPreset()
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
		cfg.Presets[name] = opts

		if _, err := cfg.Resolve(name); err != nil {
			log.Fatalf("Invalid preset: %v", err)
		}
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Preset '%s' added successfully!\n", name)
	},
}

var deletePresetCmd = &cobra.Command{
	Use:   "delete [preset-name]",
	Short: "Delete a preset",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		name, err := presetArg(cfg, args, "Select preset to delete")
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}

		confirmed, err := confirmTyped(cmd, cfg, name)
		if err != nil {
			log.Fatalf("Confirmation failed: %v", err)
		}
		if !confirmed {
			fmt.Println("Deletion cancelled")
			return
		}

		delete(cfg.Presets, name)
		if cfg.ActivePreset == name {
			cfg.ActivePreset = ""
		}
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Preset '%s' deleted successfully!\n", name)
	},
}

var usePresetCmd = &cobra.Command{
	Use:   "use [preset-name]",
	Short: "Make a preset active (\"none\" for the plain defaults)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		if len(args) > 0 && args[0] == "none" {
			cfg.ActivePreset = ""
		} else {
			name, err := presetArg(cfg, args, "Select preset to use")
			if err != nil {
				log.Fatalf("Selection failed: %v", err)
			}
			cfg.ActivePreset = name
		}

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		if cfg.ActivePreset == "" {
			fmt.Println("Using the default configuration")
			return
		}
		fmt.Printf("Switched to preset '%s'\n", cfg.ActivePreset)
	},
}

// presetArg returns the named preset, or lets the user pick one.
func presetArg(cfg *config.File, args []string, label string) (string, error) {
	if len(args) > 0 {
		if _, exists := cfg.Presets[args[0]]; !exists {
			return "", fmt.Errorf("%w: %q", config.ErrPresetNotFound, args[0])
		}
		return args[0], nil
	}

	names := cfg.PresetNames()
	if len(names) == 0 {
		return "", fmt.Errorf("no presets defined")
	}
	sort.Strings(names)

	prompt := promptui.Select{Label: label, Items: names}
	_, name, err := prompt.Run()
	return name, err
}

func promptPreset() (config.Options, error) {
	settings := &config.SettingsPatch{}
	var translations *config.TranslationsPatch

	for _, q := range []struct {
		label string
		dst   **bool
	}{
		{"Confirm automatically once the input is valid", &settings.AutoConfirm},
		{"Hide the keyword and mask the input", &settings.SecretKeyword},
		{"Hide the header", &settings.HideHeader},
		{"Skip the false event on cancel", &settings.DisableFalseEmission},
	} {
		yes, err := promptYesNo(q.label)
		if err != nil {
			return config.Options{}, err
		}
		if yes {
			*q.dst = config.Bool(true)
		}
	}

	lengthPrompt := promptui.Prompt{
		Label:   "Random keyword length",
		Default: strconv.Itoa(config.DefaultRandomKeywordLength),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	}
	raw, err := lengthPrompt.Run()
	if err != nil {
		return config.Options{}, err
	}
	if n, _ := strconv.Atoi(raw); n != config.DefaultRandomKeywordLength {
		settings.RandomKeywordLength = config.Int(n)
	}

	labelPrompt := promptui.Prompt{
		Label:   "Confirm button label",
		Default: config.DefaultTranslations().ConfirmLabel,
	}
	label, err := labelPrompt.Run()
	if err != nil {
		return config.Options{}, err
	}
	if label != config.DefaultTranslations().ConfirmLabel {
		translations = &config.TranslationsPatch{ConfirmLabel: config.String(label)}
	}

	return config.Options{Settings: settings, Translations: translations}, nil
}

func promptYesNo(label string) (bool, error) {
	prompt := promptui.Select{Label: label, Items: []string{"No", "Yes"}}
	_, answer, err := prompt.Run()
	return answer == "Yes", err
}

func init() {
	presetCmd.AddCommand(listPresetsCmd)
	presetCmd.AddCommand(showPresetCmd)
	presetCmd.AddCommand(addPresetCmd)
	presetCmd.AddCommand(deletePresetCmd)
	presetCmd.AddCommand(usePresetCmd)
}
