package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(env *environment) *cobra.Command {
	var jsonMode bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which backends the client uses",
		Args:  cobra.NoArgs,
		RunE: env.with(func(s *session, _ []string) error {
			health := s.client.Health(s.ctx)
			if jsonMode {
				if err := json.NewEncoder(s.out).Encode(health); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
				return nil
			}
			fmt.Fprintf(s.out, "api:       %s\n", health.APIURL)
			fmt.Fprintf(s.out, "storage:   %s (reachable: %t)\n", health.Storage, health.StorageOK)
			fmt.Fprintf(s.out, "search:    %s\n", health.Search)
			fmt.Fprintf(s.out, "signed in: %t\n", health.SignedIn)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")
	return cmd
}
