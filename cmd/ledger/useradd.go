package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lborres/ledger"
)

var errPasswordMismatch = errors.New("passwords do not match")

// NewUserAddCmd creates the useradd subcommand.
func NewUserAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "useradd <username>",
		Short: "Register a user",
		Long: `Register a user with a password read from the terminal without echo,
or from the first line of standard input when it is not a terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: runUserAdd,
	}
}

// NewUserDelCmd creates the userdel subcommand.
func NewUserDelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "userdel <username>",
		Short: "Delete a user; their sessions stop resolving immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserDel,
	}
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cfg.Logger()

	password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cmd.Context(), cfg.DSN, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	l, err := ledger.New(ledger.Config{Secret: cfg.Secret, Store: store, Logger: &logger})
	if err != nil {
		return err
	}

	result, err := l.SignUp(cmd.Context(), ledger.SignUpInput{Username: args[0], Password: password})
	if err != nil {
		return err
	}

	cmd.Printf("created user %s (id %s)\n", result.User.Username, result.User.ID)
	return nil
}

func runUserDel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cmd.Context(), cfg.DSN, cfg.Logger())
	if err != nil {
		return err
	}
	defer closeStore()

	user, err := store.FindByUsername(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteUser(cmd.Context(), user.ID); err != nil {
		return err
	}

	cmd.Printf("deleted user %s\n", user.Username)
	return nil
}

func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		first, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}

		fmt.Fprint(prompt, "Repeat password: ")
		second, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}

		if string(first) != string(second) {
			return "", errPasswordMismatch
		}
		return string(first), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
