package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"codelegends_gateway/apiclient"
	"codelegends_gateway/config"
	"codelegends_gateway/session"
	"codelegends_gateway/slug"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect backend-issued tokens",
}

var tokenInspectCmd = &cobra.Command{
	Use:   "inspect <jwt>",
	Short: "Print the decoded claims of a token without verifying it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := inspectToken(args[0], time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var certificateCmd = &cobra.Command{
	Use:   "certificate",
	Short: "Certificate utilities",
}

var certificateVerifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Look up a certificate by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		api, err := apiclient.New(apiclient.Options{BaseURL: cfg.APIURL, Timeout: cfg.APITimeout})
		if err != nil {
			return err
		}
		cert, err := api.GetCertificate(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("verify certificate: %s", apiclient.MessageOf(err))
		}
		if cert == nil {
			return fmt.Errorf("certificate %s not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "valid: %s completed %q on %s\n",
			cert.UserName, cert.CourseTitle, cert.IssuedAt.Format("2006-01-02"))
		return nil
	},
}

var slugCmd = &cobra.Command{
	Use:   "slug <title...>",
	Short: "Print the slug generated for a title",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), slug.Make(strings.Join(args, " ")))
	},
}

func init() {
	tokenCmd.AddCommand(tokenInspectCmd)
	certificateCmd.AddCommand(certificateVerifyCmd)
}

func inspectToken(token string, now time.Time) (string, error) {
	claims, err := session.DecodeClaims(token)
	if err != nil {
		return "", err
	}
	report := map[string]any{
		"userId":  claims.UserID,
		"email":   claims.Email,
		"role":    strings.ToUpper(claims.Role),
		"staff":   session.IsStaff(claims.Role),
		"expired": session.IsExpired(token, now),
	}
	if exp := session.ExpiresAt(token); !exp.IsZero() {
		report["expiresAt"] = exp.UTC().Format(time.RFC3339)
	}
	if claims.OnboardingCompleted != nil {
		report["onboardingCompleted"] = *claims.OnboardingCompleted
	}
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
