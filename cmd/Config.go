package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ZararB/DogWalker/environment/envconfig"
)

// ConfigCommand returns the command printing or saving the environment
// configuration in effect
func ConfigCommand() *cobra.Command {
	var (
		out     string
		format  string
		initial bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or save the environment configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := envconfig.Default()
			if !initial {
				var err error
				if c, err = loadConfig(); err != nil {
					return err
				}
			}

			if out != "" {
				return c.Save(out)
			}
			data, err := c.Marshal(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "",
		"File to save to, the format is chosen by its extension")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml",
		"Format to print in: yaml or json")
	cmd.Flags().BoolVar(&initial, "default", false,
		"Ignore the environment and config file, use the defaults")
	return cmd
}
