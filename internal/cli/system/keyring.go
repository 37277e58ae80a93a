package system

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/keyring"
	"github.com/julianstephens/questlog/internal/storage/postgres"
)

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Entry string `arg:"" help:"Entry to store (database-connection or s3-secret-key)."`
	Value string `arg:"" optional:"" help:"Secret value. Read from stdin when omitted."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	entry, err := keyring.ParseEntry(cmd.Entry)
	if err != nil {
		return err
	}

	value := cmd.Value
	if value == "" {
		if value, err = readSecret(entry); err != nil {
			return err
		}
	}

	if entry == keyring.ConnectionString {
		if !postgres.IsConnString(value) {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if err := postgres.ValidateConnString(value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			// Warn about embedded credentials but allow storage in keyring (it's encrypted)
			fmt.Fprintln(out, "⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Fprintln(out, "   It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(entry, value); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ %s stored successfully in OS keyring\n", entry)
	if entry == keyring.ConnectionString {
		fmt.Fprintln(out, "  Use --config keyring to open it")
	}
	return nil
}

func readSecret(entry keyring.Entry) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "%s: ", entry)
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// KeyringGetCmd shows a stored secret with its sensitive part masked
type KeyringGetCmd struct {
	Entry string `arg:"" help:"Entry to show (database-connection or s3-secret-key)."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	entry, err := keyring.ParseEntry(cmd.Entry)
	if err != nil {
		return err
	}

	value, err := keyring.Get(entry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'questlog keyring set %s' to store one", entry, entry)
		}
		return err
	}

	fmt.Fprintf(ctx.Stdout(), "%s retrieved from keyring:\n", entry)
	fmt.Fprintln(ctx.Stdout(), mask(entry, value))
	return nil
}

func mask(entry keyring.Entry, value string) string {
	if entry == keyring.ConnectionString {
		return postgres.MaskPassword(value)
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Entry string `arg:"" help:"Entry to delete (database-connection or s3-secret-key)."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	entry, err := keyring.ParseEntry(cmd.Entry)
	if err != nil {
		return err
	}

	if err := keyring.Delete(entry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", entry)
		}
		return err
	}

	fmt.Fprintf(ctx.Stdout(), "✓ %s deleted from OS keyring\n", entry)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	if !keyring.IsAvailable() {
		fmt.Fprintln(out, "❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}

	fmt.Fprintln(out, "✓ OS keyring is available")
	for _, entry := range keyring.Entries {
		_, err := keyring.Get(entry)
		switch {
		case err == nil:
			fmt.Fprintf(out, "✓ %s is stored in keyring\n", entry)
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Fprintf(out, "ℹ No %s stored in keyring\n", entry)
		default:
			fmt.Fprintf(out, "⚠ %s: %v\n", entry, err)
		}
	}
	return nil
}
