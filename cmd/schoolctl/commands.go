package main

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"schoolapi/internal/auth"
	"schoolapi/internal/client"
	"schoolapi/internal/config"
	"schoolapi/internal/logger"
)

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "schoolctl",
		Short:         "Add and list schools through the school API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(
		newAddCmd(),
		newListCmd(),
		newContactCmd(),
		newTokenCmd(),
	)
	return root
}

func newAddCmd() *cobra.Command {
	var fields = map[string]*string{}
	var imagePath string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a new school with its image",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.New(config.LoadClient())
			form := client.NewSubmissionForm(api)

			for _, name := range []string{"name", "address", "city", "state", "contact", "email_id"} {
				if err := form.SetField(name, *fields[name]); err != nil {
					return err
				}
			}

			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				ct := mime.TypeByExtension(filepath.Ext(imagePath))
				if err := form.AttachImage(filepath.Base(imagePath), ct, data); err != nil {
					return reportFailure(cmd, form.ErrorMessage(), err)
				}
			}

			redirect, err := form.Submit(cmd.Context())
			if err != nil {
				return reportFailure(cmd, form.ErrorMessage(), err)
			}

			view := client.NewListingView(api, redirect)
			if err := view.Load(cmd.Context()); err != nil {
				l := logger.Component("schoolctl")
				l.Warn().Err(err).Msg("listing_after_add_failed")
			}
			return view.Render(cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	fields["name"] = flags.String("name", "", "school name")
	fields["address"] = flags.String("address", "", "street address")
	fields["city"] = flags.String("city", "", "city")
	fields["state"] = flags.String("state", "", "state")
	fields["contact"] = flags.String("contact", "", "10-digit mobile number")
	fields["email_id"] = flags.String("email", "", "contact email")
	flags.StringVar(&imagePath, "image", "", "path to a JPEG, PNG or GIF image")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every school",
		RunE: func(cmd *cobra.Command, args []string) error {
			view := client.NewListingView(client.New(config.LoadClient()), nil)
			loadErr := view.Load(cmd.Context())
			if err := view.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
			return loadErr
		},
	}
}

func newContactCmd() *cobra.Command {
	var name, email, message string

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the contact endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.New(config.LoadClient())
			msg, err := api.SendContact(cmd.Context(), name, email, message)
			if err != nil {
				return reportFailure(cmd, client.SubmitErrorMessage(err), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "your email")
	cmd.Flags().StringVar(&message, "message", "", "message body")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the write endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load().Auth
			if cfg.JWTSecret == "" {
				return errors.New("AUTH_JWT_SECRET is not set")
			}
			tok, err := auth.NewSigner(cfg.JWTSecret, cfg.Issuer).Issue(subject, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func reportFailure(cmd *cobra.Command, message string, err error) error {
	if message == "" {
		message = err.Error()
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", message)
	return err
}

func init() {
	// Declared types for the image extensions the API accepts.
	_ = mime.AddExtensionType(".jpg", "image/jpeg")
	_ = mime.AddExtensionType(".jpeg", "image/jpeg")
	_ = mime.AddExtensionType(".png", "image/png")
	_ = mime.AddExtensionType(".gif", "image/gif")
}
