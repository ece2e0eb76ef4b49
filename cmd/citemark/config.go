package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citemark/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set values in the global config file
($XDG_CONFIG_HOME/citemark/config.yml).

Usage:
  citemark config                          # Show effective config
  citemark config bibliography             # Get specific value
  citemark config bibliography ~/refs.bib  # Set value

Keys:
  bibliography  Default bibliography (.bib, .jsonl or .db)
  root          Directory that document bibliography paths are relative to
  placeholder   Text replaced by the reference list (default [REFERENCES])
  encoding      Charset of .bib files (default UTF-8)
  log_level     none, normal or debug
  safe_html     Drop raw HTML from documents (true/false)
  gfm           Enable tables, strikethrough and task lists (true/false)

Environment variables CITEMARK_BIBLIOGRAPHY, CITEMARK_ROOT,
CITEMARK_ENCODING and CITEMARK_LOG_LEVEL override the file; a .env file in
the working directory is read first.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	// No args: show effective config
	if len(args) == 0 {
		cfg := mustLoadConfig()
		if humanOutput {
			for _, key := range config.Keys {
				v, _ := cfg.Get(key)
				fmt.Printf("%-13s %s\n", key+":", v)
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := args[0]

	// One arg: get specific value
	if len(args) == 1 {
		cfg := mustLoadConfig()
		v, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(v)
		} else {
			outputJSON(map[string]string{key: v})
		}
		return nil
	}

	// Two args: set value in the file only, without env or defaults
	path := config.GlobalConfigPath()
	cfg, err := config.ReadFile(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	value := args[1]
	if key == "bibliography" || key == "root" {
		value = config.ExpandPath(value)
	}
	if err := cfg.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(path); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}
