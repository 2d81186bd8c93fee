package main

import (
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/spf13/cobra"
)

func newVAPIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vapid",
		Short: "Generate a VAPID key pair for web push",
		Long: `Generates a VAPID key pair. Put the public key in the config file
(push.vapid_public_key) and export the private key as VAPID_PRIVATE_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			private, public, err := webpush.GenerateVAPIDKeys()
			if err != nil {
				return fmt.Errorf("attache: generate vapid keys: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "public:  %s\nprivate: %s\n", public, private)
			return nil
		},
	}
}
