package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hy4ri/todolist/internal/config"
)

const configTemplate = `# todolist configuration
# Location: ~/.config/todolist/config.yaml

user:
  # Owner of the projects and tasks shown.
  id: "112"

gateway:
  # local: documents under data_dir (default ~/.local/share/todolist/store)
  # remote: a server started with 'todolist serve'
  mode: local
  # data_dir: ~/todolist
  # url: http://127.0.0.1:7766

server:
  addr: 127.0.0.1:7766
  metrics: true

ui:
  # Enable Vim-style keybindings (default: true)
  vim_mode: true
  # inbox, today, next_7 or a projectId
  start_view: inbox
  # Desktop notification for tasks due today
  notifications: true

log:
  # path: ~/.local/share/todolist/todolist.log
  level: info
`

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a template config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configPath
			if path == "" {
				var err error
				if path, err = config.ConfigPath(); err != nil {
					return fmt.Errorf("failed to get config path: %w", err)
				}
			}
			return writeConfigTemplate(cmd, path, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite without asking")
	return cmd
}

func writeConfigTemplate(cmd *cobra.Command, path string, force bool) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "Config file already exists: %s\n", path)
		fmt.Fprint(out, "Overwrite? [y/N]: ")

		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)

		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(out, "Config file created: %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Pick a gateway mode in the config file")
	fmt.Fprintln(out, "  2. For remote mode, run 'todolist token set' with the server token")
	fmt.Fprintln(out, "  3. Run 'todolist' to start")
	return nil
}
