package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"

	"github.com/tmeurs/lambdahunt/internal/ui"
)

var (
	addKeyName string
	addKeyFile string
)

// keysCmd groups SSH key management.
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage SSH keys registered with the provider",
}

// keysListCmd lists the registered SSH keys.
var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered SSH keys",
	Run: func(cmd *cobra.Command, args []string) {
		_, client, err := setupClient()
		if err != nil {
			fail(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		keys, err := client.ListSSHKeys(ctx)
		if err != nil {
			fail(err)
		}

		if IsJSONOutput() {
			PrintJSON(keys)
			return
		}
		fmt.Print(ui.RenderSSHKeys(keys))
	},
}

// keysAddCmd registers a public key with the provider. Launches reference
// keys by name; the key must be registered before it can be used.
var keysAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a public key",
	Run: func(cmd *cobra.Command, args []string) {
		_, client, err := setupClient()
		if err != nil {
			fail(err)
		}

		data, err := os.ReadFile(addKeyFile)
		if err != nil {
			fail(fmt.Errorf("failed to read public key file: %w", err))
		}

		// Reject malformed keys locally before they hit the provider.
		if _, _, _, _, err := ssh.ParseAuthorizedKey(data); err != nil {
			fail(fmt.Errorf("%s is not a valid OpenSSH public key: %w", addKeyFile, err))
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		key, err := client.AddSSHKey(ctx, addKeyName, string(data))
		if err != nil {
			fail(err)
		}

		if IsJSONOutput() {
			PrintJSON(key)
			return
		}
		fmt.Printf("SSH key %q registered (id %s)\n", key.Name, key.ID)
	},
}

func init() {
	keysAddCmd.Flags().StringVar(&addKeyName, "name", "", "Name to register the key under")
	keysAddCmd.Flags().StringVar(&addKeyFile, "file", "", "Path to the OpenSSH public key file")
	keysAddCmd.MarkFlagRequired("name")
	keysAddCmd.MarkFlagRequired("file")

	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysAddCmd)
	rootCmd.AddCommand(keysCmd)
}
