// Command bqcred provisions credentials for the BigQuery MCP server:
// it generates RSA key pairs and mints signed access tokens.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/projectmcp/bigquery-mcp/auth"
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	warn     = color.New(color.FgYellow).SprintFunc()
)

type cli struct {
	GenerateKeys  generateKeysCmd  `cmd:"" help:"Generate an RSA key pair for token signing."`
	GenerateToken generateTokenCmd `cmd:"" help:"Mint a signed access token from a private key."`
}

func main() {
	var flags cli
	ctx := kong.Parse(&flags,
		kong.Name("bqcred"),
		kong.Description("Credential provisioning for the BigQuery MCP server."),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", failMark("✗"), err)
		os.Exit(1)
	}
}

type generateKeysCmd struct {
	PublicKeyFile  string `help:"Output path for the public key PEM." default:"credentials/public_key.pem"`
	PrivateKeyFile string `help:"Output path for the private key PEM." default:"credentials/private_key.pem"`
	Force          bool   `help:"Overwrite existing key files."`
}

func (c *generateKeysCmd) Run() error {
	if !c.Force {
		for _, path := range []string{c.PrivateKeyFile, c.PublicKeyFile} {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
		}
	}

	pair, err := auth.GenerateKeyPair()
	if err != nil {
		return err
	}

	if err := writeKeyFile(c.PublicKeyFile, pair.PublicPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}
	if err := writeKeyFile(c.PrivateKeyFile, pair.PrivatePEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	fmt.Printf("%s wrote %s\n", okMark("✓"), c.PublicKeyFile)
	fmt.Printf("%s wrote %s\n", okMark("✓"), c.PrivateKeyFile)
	fmt.Printf("%s keep the private key out of version control\n", warn("!"))
	return nil
}

func writeKeyFile(path, pemText string, mode os.FileMode) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(pemText), mode)
}

type generateTokenCmd struct {
	PrivateKey string        `help:"Private key PEM path." default:"credentials/private_key.pem"`
	Issuer     string        `help:"Token issuer claim." env:"JWT_ISSUER" required:""`
	Audience   string        `help:"Token audience claim." env:"JWT_AUDIENCE" required:""`
	Subject    string        `help:"Token subject." default:"ProjectMCP"`
	Scopes     string        `help:"Comma-separated scopes." default:"read,write,admin"`
	Lifetime   time.Duration `help:"Token lifetime." default:"17520h"`
	TokenFile  string        `help:"Also write the token to this file."`
}

func (c *generateTokenCmd) Run() error {
	data, err := os.ReadFile(c.PrivateKey)
	if err != nil {
		return fmt.Errorf("read private key: %w", err)
	}

	issuer, err := auth.NewIssuer(auth.IssuerConfig{
		Issuer:   c.Issuer,
		Audience: c.Audience,
	}, string(data))
	if err != nil {
		return err
	}

	scopes := auth.ParseScopeList(c.Scopes)
	token, err := issuer.Issue(c.Subject, scopes, c.Lifetime)
	if err != nil {
		return err
	}

	if c.TokenFile != "" {
		if err := os.WriteFile(c.TokenFile, []byte(token), 0o600); err != nil {
			return fmt.Errorf("write token file: %w", err)
		}
		fmt.Printf("%s wrote %s\n", okMark("✓"), c.TokenFile)
	}

	fmt.Printf("%s token issued\n", okMark("✓"))
	fmt.Printf("  subject:  %s\n", c.Subject)
	fmt.Printf("  issuer:   %s\n", c.Issuer)
	fmt.Printf("  audience: %s\n", c.Audience)
	fmt.Printf("  scopes:   %v\n", scopes)
	fmt.Printf("  expires:  %s\n", time.Now().Add(c.Lifetime).UTC().Format(time.RFC3339))
	fmt.Printf("\n%s\n", token)
	fmt.Printf("\nuse it as:  Authorization: Bearer <token>\n")
	return nil
}
