package main

import (
	"fmt"

	"github.com/Yaswanth0403/BookHaven/internal/repository"
	"github.com/Yaswanth0403/BookHaven/internal/service"
	"github.com/Yaswanth0403/BookHaven/internal/session"

	"github.com/spf13/cobra"
)

func newCreateAdminCmd(a *app) *cobra.Command {
	var input service.RegisterInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator or promote an existing account",
		Long: `create-admin makes sure an administrator account exists for --email.
An existing customer account is promoted and keeps its password; otherwise
a new account is created and --password is required.

Flags default to the ADMIN_* settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin := a.cfg.Admin
			if !cmd.Flags().Changed("email") {
				input.Email = admin.Email
			}
			if !cmd.Flags().Changed("password") {
				input.Password = admin.Password
			}
			if !cmd.Flags().Changed("first-name") {
				input.FirstName = admin.FirstName
			}
			if !cmd.Flags().Changed("last-name") {
				input.LastName = admin.LastName
			}
			if input.Email == "" {
				return fmt.Errorf("--email or ADMIN_EMAIL is required")
			}

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			redisClient, err := session.Connect(cmd.Context(), a.cfg.Redis)
			if err != nil {
				return err
			}
			defer redisClient.Close()

			users := service.NewUserService(
				repository.NewUserRepository(db.DB()),
				repository.NewRefreshTokenRepository(db.DB()),
				session.NewRedisStore(redisClient, a.cfg.Session.TTL),
				a.cfg.JWT.Secret,
			)

			user, err := users.EnsureAdmin(cmd.Context(), input)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin %s ready (id %s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "administrator email")
	cmd.Flags().StringVar(&input.Password, "password", "", "password for a new account")
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")

	return cmd
}
