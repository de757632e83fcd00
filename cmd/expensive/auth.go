package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hunglv/expensive/internal/auth"
	"github.com/hunglv/expensive/internal/cli"
	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/validate"
	"github.com/spf13/cobra"
)

var errSignedOut = fmt.Errorf("%w: run `expensive login` first", auth.ErrNotAuthenticated)

func loginCmd(rt *runtime) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: `Sign in with a username and password. Authentication is simulated
locally: any non-empty credentials are accepted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			kv, err := rt.initStorage(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			p := cli.NewPrompter(cmd.InOrStdin(), out)
			if username == "" {
				if username, err = p.Ask(ctx, "Username", ""); err != nil {
					return err
				}
			}
			password, err := p.AskPassword(ctx, "Password")
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.SubtitleStyle.Render("Signing in..."))
			session, err := rt.sessions(kv).Login(ctx, model.Credentials{Username: username, Password: password})
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Welcome, %s!", session.User.Name)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (asked for when omitted)")
	return cmd
}

func registerCmd(rt *runtime) *cobra.Command {
	var reg model.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  `Create an account. Like login, registration is simulated and nothing leaves this machine.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			p := cli.NewPrompter(cmd.InOrStdin(), out)

			ask := func(label string, value *string) error {
				if *value != "" {
					return nil
				}
				answer, err := p.Ask(ctx, label, "")
				*value = answer
				return err
			}
			if err := ask("Full name", &reg.Name); err != nil {
				return err
			}
			if err := ask("Email", &reg.Email); err != nil {
				return err
			}
			if err := ask("Username", &reg.Username); err != nil {
				return err
			}
			var err error
			if reg.Password, err = p.AskPassword(ctx, "Password"); err != nil {
				return err
			}
			if reg.Confirm, err = p.AskPassword(ctx, "Confirm password"); err != nil {
				return err
			}

			f, err := rt.formatter()
			if err != nil {
				return err
			}
			v := rt.validator(f)
			res := validate.Form(
				map[string]string{
					"name":     reg.Name,
					"email":    reg.Email,
					"username": reg.Username,
					"password": reg.Password,
					"confirm":  reg.Confirm,
				},
				[]validate.FieldRule{
					{Field: "name", Label: "Họ tên", Required: true},
					{Field: "email", Label: "Email", Required: true, Validator: v.Email},
					{Field: "username", Label: "Tên đăng nhập", Required: true, Validator: v.Username},
					{Field: "password", Label: "Mật khẩu", Required: true, Validator: v.Password},
					{Field: "confirm", Label: "Xác nhận mật khẩu", Required: true, Validator: func(s string) validate.Result {
						return v.PasswordConfirm(reg.Password, s)
					}},
				},
			)
			if !res.IsValid {
				return common.NewUserError(res.FirstError, common.ErrInvalidInput)
			}

			fmt.Fprintln(out, cli.SubtitleStyle.Render("Creating account..."))
			if err := rt.authenticator().Register(ctx, reg); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(auth.MsgRegistered))
			return nil
		},
	}

	cmd.Flags().StringVar(&reg.Name, "name", "", "full name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&reg.Username, "username", "u", "", "username")
	return cmd
}

func logoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			kv, err := rt.initStorage(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			sessions := rt.sessions(kv)
			sessions.Load(ctx)
			if !sessions.IsAuthenticated() {
				fmt.Fprintln(out, cli.FormatInfo("Not signed in."))
				return nil
			}
			if err := sessions.Logout(ctx); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess("Signed out."))
			return nil
		},
	}
}

func whoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			kv, err := rt.initStorage(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			sessions := rt.sessions(kv)
			sessions.Load(ctx)
			session, ok := sessions.Current()
			if !ok {
				return errSignedOut
			}

			lines := []string{
				fmt.Sprintf("Name:   %s", session.User.Name),
				fmt.Sprintf("Email:  %s", session.User.Email),
				fmt.Sprintf("ID:     %d", session.User.ID),
			}
			if last, ok := sessions.LastLogin(ctx); ok {
				lines = append(lines, fmt.Sprintf("Signed in: %s", format.RelativeTime(last, rt.now())))
			}
			if claims, err := auth.ParseToken(session.Token); err == nil {
				lines = append(lines, fmt.Sprintf("Token:  %s", claims.ID))
			} else {
				rt.logger.Warn("Stored session token is unreadable", "error", err)
			}

			fmt.Fprintln(out, cli.RenderBox("👤 "+session.User.Name, strings.Join(lines, "\n")))
			return nil
		},
	}
}

func profileCmd(rt *runtime) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change your name or email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var patch model.UserPatch
			if cmd.Flags().Changed("name") {
				if r := validate.Required(name, "Họ tên"); !r.IsValid {
					return common.NewUserError(r.Message, common.ErrInvalidInput)
				}
				patch.Name = &name
			}
			if cmd.Flags().Changed("email") {
				f, err := rt.formatter()
				if err != nil {
					return err
				}
				if r := rt.validator(f).Email(email); !r.IsValid {
					return common.NewUserError(r.Message, common.ErrInvalidInput)
				}
				patch.Email = &email
			}
			if patch.Name == nil && patch.Email == nil {
				return fmt.Errorf("nothing to change; pass --name and/or --email")
			}

			kv, err := rt.initStorage(ctx)
			if err != nil {
				return err
			}
			defer rt.closeStorage(kv)

			sessions := rt.sessions(kv)
			sessions.Load(ctx)
			user, err := sessions.UpdateUser(ctx, patch)
			if errors.Is(err, auth.ErrNotAuthenticated) {
				return errSignedOut
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Profile updated: %s <%s>", user.Name, user.Email)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	return cmd
}
