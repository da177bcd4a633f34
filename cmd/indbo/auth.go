package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mitindbo/indbo/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log ind via browseren",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Println("Åbner browseren for at logge ind...")
		_, err = a.provider.Authorize(cmd.Context(), func(url string) error {
			if err := openBrowser(url); err != nil {
				slog.Warn("could not launch browser", "error", err)
				fmt.Printf("Åbn selv dette link:\n\n  %s\n\n", url)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("login mislykkedes: %w", err)
		}

		fmt.Println("Du er logget ind.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log ud og ryd den lokale session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		logoutURL, err := a.provider.Logout(cmd.Context())
		if err != nil {
			return fmt.Errorf("logout mislykkedes: %w", err)
		}

		if err := openBrowser(logoutURL); err != nil {
			slog.Debug("could not launch browser for logout", "error", err)
		}
		fmt.Println("Du er nu logget ud.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Vis hvem der er logget ind",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		token, err := a.provider.AccessToken(cmd.Context())
		if err != nil {
			return err
		}
		subject, err := auth.Subject(token)
		if err != nil {
			return err
		}
		expiry, err := auth.Expiry(token)
		if err != nil {
			return err
		}

		fmt.Printf("Logget ind som %s (token udløber %s)\n",
			subject, expiry.Local().Format("02.01.2006 15:04"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
