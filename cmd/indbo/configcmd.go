package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitindbo/indbo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Administrér konfigurationen",
}

// configPath resolves the config file location from the persistent flag or
// the platform default.
func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Opret en ny konfigurationsfil",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath(cmd)
		if err != nil {
			return err
		}

		cfg := config.Default()
		if url, _ := cmd.Flags().GetString("api-url"); url != "" {
			cfg.APIURL = url
		}
		if domain, _ := cmd.Flags().GetString("auth-domain"); domain != "" {
			cfg.Auth.Domain = domain
		}
		if clientID, _ := cmd.Flags().GetString("auth-client-id"); clientID != "" {
			cfg.Auth.ClientID = clientID
		}
		if audience, _ := cmd.Flags().GetString("auth-audience"); audience != "" {
			cfg.Auth.Audience = audience
		}

		if err := config.Init(path, cfg); err != nil {
			return err
		}

		fmt.Printf("Konfiguration oprettet: %s\n", path)
		if cfg.Auth.Domain == "" || cfg.Auth.ClientID == "" {
			fmt.Println("Udfyld auth.domain og auth.client_id før du logger ind.")
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Vis konfigurationen",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.ReadFromFile(path)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		fmt.Printf("Konfiguration fra %s:\n\n", path)
		fmt.Printf("API-url:       %s\n", cfg.APIURL)
		fmt.Printf("Sidestørrelse: %d\n", cfg.PageSize)
		fmt.Printf("Datamappe:     %s\n", cfg.DataDir)
		if cfg.LogPath != "" {
			fmt.Printf("Logfil:        %s\n", cfg.LogPath)
		}
		fmt.Printf("Auth-domæne:   %s\n", cfg.Auth.Domain)
		fmt.Printf("Klient-id:     %s\n", cfg.Auth.ClientID)
		fmt.Printf("Audience:      %s\n", cfg.Auth.Audience)
		fmt.Printf("Redirect-url:  %s\n", cfg.Auth.RedirectURL)
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("api-url", "", "API-serverens adresse")
	configInitCmd.Flags().String("auth-domain", "", "Identitetsudbyderens domæne")
	configInitCmd.Flags().String("auth-client-id", "", "Klient-id hos identitetsudbyderen")
	configInitCmd.Flags().String("auth-audience", "", "API-audience hos identitetsudbyderen")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
