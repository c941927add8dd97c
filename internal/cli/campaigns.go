package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/kankatext/internal/client"
)

func newCampaignsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "campaigns",
		Short: "List the Kanka campaigns available to your API token",
		Long: `List the Kanka campaigns your personal access token can read, with their
ids. The token is read from KANKA_API_TOKEN or the config file.

Examples:
  KANKA_API_TOKEN=... kankatext campaigns`,
		Args: cobra.NoArgs,
		RunE: a.runCampaigns,
	}
}

func (a *app) runCampaigns(cmd *cobra.Command, args []string) error {
	c := client.New(a.cfg.APIURL, a.cfg.APIToken, a.cfg.HTTPTimeout)

	campaigns, err := c.ListCampaigns(cmd.Context())
	if err != nil {
		if errors.Is(err, client.ErrMissingToken) {
			return fmt.Errorf("%w: set KANKA_API_TOKEN or api_token in the config file", err)
		}
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("could not retrieve campaign list, please check your API token: %w", err)
		}
		return fmt.Errorf("list campaigns: %w", err)
	}

	a.logger.Debug("listed campaigns", "count", len(campaigns))

	out := cmd.OutOrStdout()
	if len(campaigns) == 0 {
		fmt.Fprintln(out, a.theme.hint("No campaigns found."))
		return nil
	}
	fmt.Fprintln(out, "Found the following campaigns:")
	for _, campaign := range campaigns {
		fmt.Fprintf(out, "Name: %s, ID: %d\n", campaign.Name, campaign.ID)
	}
	return nil
}
