package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mentordoc/client/internal/actions"
	"mentordoc/client/internal/state"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "account password (prompted without echo when omitted; visible in shell history when given)")
	_ = cmd.MarkFlagRequired("email")
}

func (f *credentialFlags) resolve(s *session) (string, string, error) {
	password := f.password
	if password == "" {
		line, err := s.readPassword("Password: ")
		if err != nil {
			return "", "", err
		}
		password = line
	}
	return strings.TrimSpace(f.email), password, nil
}

func newSigninCmd(env *environment) *cobra.Command {
	creds := &credentialFlags{}
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: env.with(func(s *session, _ []string) error {
			email, password, err := creds.resolve(s)
			if err != nil {
				return err
			}
			if err := run(s, s.client.Actions.Signin, actions.SigninRequest{Request: request(), Email: email, Password: password}); err != nil {
				return err
			}
			s.success("signed in as %s", email)
			return nil
		}),
	}
	creds.register(cmd)
	return cmd
}

func newSignupCmd(env *environment) *cobra.Command {
	creds := &credentialFlags{}
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: env.with(func(s *session, _ []string) error {
			email, password, err := creds.resolve(s)
			if err != nil {
				return err
			}
			if err := run(s, s.client.Actions.Signup, actions.SignupRequest{Request: request(), Email: email, Password: password}); err != nil {
				return err
			}
			s.success("account created for %s", email)
			return nil
		}),
	}
	creds.register(cmd)
	return cmd
}

func newLogoutCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: env.with(func(s *session, _ []string) error {
			s.client.API.Store.DispatchAll(
				state.Logout.Action(struct{}{}),
				state.SetCurrentOrganization.Action(state.SetCurrentOrganizationPayload{}),
			)
			s.success("signed out")
			return nil
		}),
	}
}

func newWhoamiCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: env.withSession(func(s *session, _ []string) error {
			if err := run(s, s.client.Actions.FetchCurrentUser, actions.FetchCurrentUserRequest{Request: request()}); err != nil {
				return err
			}
			user := s.state().User.CurrentUser
			if user == nil {
				return fmt.Errorf("no user returned")
			}
			name := strings.TrimSpace(user.FirstName + " " + user.LastName)
			if name == "" {
				fmt.Fprintln(s.out, user.Email)
				return nil
			}
			fmt.Fprintf(s.out, "%s <%s>\n", name, user.Email)
			return nil
		}),
	}
}
