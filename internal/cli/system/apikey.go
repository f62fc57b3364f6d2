package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timewise/internal/cli"
	"github.com/julianstephens/timewise/internal/keyring"
)

// APIKeySetCmd stores the Gemini API key in the OS keyring.
type APIKeySetCmd struct {
	Key string `arg:"" optional:"" help:"Gemini API key. Omit to enter it without echo."`
}

func (cmd *APIKeySetCmd) Run(ctx *cli.Context) error {
	key := strings.TrimSpace(cmd.Key)
	if key == "" {
		input := huh.NewInput().
			Title("Gemini API key").
			EchoMode(huh.EchoModePassword).
			Value(&key)
		if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
	}

	if err := keyring.SetAPIKey(key); err != nil {
		return err
	}
	ctx.Println("✓ API key stored in OS keyring")
	return nil
}

// APIKeyDeleteCmd removes the Gemini API key from the OS keyring.
type APIKeyDeleteCmd struct{}

func (cmd *APIKeyDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return err
	}
	ctx.Println("✓ API key deleted from OS keyring")
	return nil
}

// APIKeyStatusCmd reports where the API key would be read from.
type APIKeyStatusCmd struct{}

func (cmd *APIKeyStatusCmd) Run(ctx *cli.Context) error {
	if ctx.Config != nil && ctx.Config.Gemini.APIKey != "" {
		ctx.Println("✓ API key is set in the environment")
	}

	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	_, err := keyring.GetAPIKey()
	switch {
	case err == nil:
		ctx.Println("✓ API key is stored in keyring")
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("ℹ No API key stored in keyring")
	default:
		return err
	}
	return nil
}
