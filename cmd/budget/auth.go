package main

import (
	"fmt"

	"github.com/Veraticus/budget-sheets/internal/cli"
	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/config"
	"github.com/Veraticus/budget-sheets/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to the spreadsheet with your Google account",
		Long: `Open the Google consent page and store the resulting token so later commands
can reach the spreadsheet. Requires sheets.client_id and sheets.client_secret.
Service account users do not need this.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			clientID := viper.GetString("sheets.client_id")
			clientSecret := viper.GetString("sheets.client_secret")
			if clientID == "" || clientSecret == "" {
				return common.NewUserError("sheets.client_id and sheets.client_secret must be configured", common.ErrMissingConfig)
			}

			tokenFile := config.TokenPath()
			_, err := sheets.Authorize(cmd.Context(), sheets.OAuth2Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				TokenFile:    tokenFile,
				ListenAddr:   listen,
			}, func(url string) {
				fmt.Fprintln(out, cli.FormatInfo("Open this link in your browser to authorize:"))
				fmt.Fprintln(out, url)
			})
			if err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess("Token saved to "+tokenFile))
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "localhost:8080", "local address for the OAuth callback")
	return cmd
}
