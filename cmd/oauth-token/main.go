// Command oauth-token walks the one-time Google OAuth consent flow and
// prints the refresh token the Ads integration needs. Run it locally,
// paste the redirect code, and copy the token into the environment.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	clientID := os.Getenv("GOOGLE_ADS_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_ADS_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		fmt.Fprintln(os.Stderr, "GOOGLE_ADS_CLIENT_ID and GOOGLE_ADS_CLIENT_SECRET must be set")
		os.Exit(1)
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{"https://www.googleapis.com/auth/adwords"},
	}

	url := cfg.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Println("Open this URL in a browser and authorize access:")
	fmt.Println()
	fmt.Println("  " + url)
	fmt.Println()
	fmt.Print("Paste the authorization code here: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read code: %v\n", err)
		os.Exit(1)
	}
	code = strings.TrimSpace(code)

	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token exchange failed: %v\n", err)
		os.Exit(1)
	}

	if token.RefreshToken == "" {
		fmt.Fprintln(os.Stderr, "no refresh token returned; revoke prior consent and retry")
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("GOOGLE_ADS_REFRESH_TOKEN=" + token.RefreshToken)
}
