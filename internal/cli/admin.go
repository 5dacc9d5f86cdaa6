package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bizbook/internal/repos"
	"bizbook/internal/services"
)

func NewAdminCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newSetPasswordCommand(root))
	return cmd
}

type setPasswordOptions struct {
	Username string
	Password string
}

func newSetPasswordCommand(root *RootOptions) *cobra.Command {
	opts := &setPasswordOptions{}

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Create an admin or replace its password",
		Long:  "Create an admin or replace its password. Without --password the first line of stdin is used.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if opts.Username == "" {
				opts.Username = cfg.AdminUsername
			}
			password := opts.Password
			if password == "" {
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer db.Close()

			auth := services.NewAuthService(repos.NewStore(db), nil, cfg.SessionTTL, repos.BcryptCost)
			if err := auth.SetPassword(cmd.Context(), opts.Username, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", opts.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "admin username (default from config)")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "new password (read from stdin when empty)")

	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no password given")
	}
	return line, nil
}
