package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and print a token to export as " + envToken,
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var onboardName string

var onboardCmd = &cobra.Command{
	Use:   "onboard <email>",
	Short: "Register a new account",
	Args:  cobra.ExactArgs(1),
	RunE:  runOnboard,
}

func init() {
	onboardCmd.Flags().StringVar(&onboardName, "name", "", "display name")
	rootCmd.AddCommand(loginCmd, onboardCmd)
}

// readPassword reads one line from stdin.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := readPassword()
	if err != nil {
		return err
	}

	login, err := newClient().Login(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, successStyle.Render("logged in as "+login.Name))
	fmt.Printf("export %s=%s\n", envToken, login.Token)
	return nil
}

func runOnboard(cmd *cobra.Command, args []string) error {
	password, err := readPassword()
	if err != nil {
		return err
	}

	name := onboardName
	if name == "" {
		name, _, _ = strings.Cut(args[0], "@")
	}

	identity, err := newClient().Onboard(cmd.Context(), args[0], password, name)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("registered " + identity.Email))
	return nil
}
