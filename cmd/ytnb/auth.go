package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/localstate"
)

func (a *app) signupCmd() *cobra.Command {
	var req dto.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				password, err := readPassword(cmd)
				if err != nil {
					return err
				}
				req.Password = password
			}
			resp, err := a.client.Signup(cmd.Context(), req)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.UserName, "name", "", "display name")
	cmd.Flags().StringVar(&req.UserEmail, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("name")  //nolint:errcheck // flag exists
	_ = cmd.MarkFlagRequired("email") //nolint:errcheck // flag exists
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var req dto.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the account on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				password, err := readPassword(cmd)
				if err != nil {
					return err
				}
				req.Password = password
			}
			resp, err := a.client.Login(cmd.Context(), req)
			if err != nil {
				return userError(err)
			}
			identity := domain.Identity{UserID: resp.UserID, UserName: resp.UserName}
			if err := a.state.Save(identity); err != nil {
				return fmt.Errorf("failed to save login: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Welcome, %s.\n", resp.Message, resp.UserName)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.UserEmail, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email") //nolint:errcheck // flag exists
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.state.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := a.state.Load()
			if errors.Is(err, localstate.ErrNotLoggedIn) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), identityLabel(identity))
			return nil
		},
	}
}

// readPassword reads one line from the command's input.
func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}
