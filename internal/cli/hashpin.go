package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/miletracker/config"
	"github.com/Temutjin2k/miletracker/pkg/passhash"
)

// NewHashPINCommand prints a bcrypt hash usable in AUTH_DRIVERS instead of the plain PIN.
func NewHashPINCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-pin <pin>",
		Short: "Hash a driver PIN for the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := passhash.HashPassword(args[0])
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), map[string]string{"hash": h}, func(w io.Writer) {
				fmt.Fprintln(w, h)
			})
		},
	}
}

// knownDriver matches name case-insensitively against the configured drivers
// and returns the configured spelling.
func knownDriver(pins []config.DriverPIN, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, p := range pins {
		if strings.EqualFold(p.Name, name) {
			return p.Name, true
		}
	}
	return "", false
}
