// Package admin provides the staff account commands used to bootstrap and
// manage console operators.
package admin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ns-ai-search/console/internal/application/staff"
	"github.com/ns-ai-search/console/internal/application/staff/dto"
	"github.com/ns-ai-search/console/internal/infrastructure/auth"
	"github.com/ns-ai-search/console/internal/infrastructure/config"
	"github.com/ns-ai-search/console/internal/infrastructure/database"
	"github.com/ns-ai-search/console/internal/infrastructure/repository"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

var (
	env        string
	configPath string
	email      string
	userName   string
	password   string
	role       string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage console staff accounts",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(newCreateUserCommand(), newDeleteUserCommand())
	return cmd
}

func newCreateUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a staff user",
		Long:  `Create a staff user. The password is prompted for when --password is omitted.`,
		RunE:  runCreateUser,
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&userName, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 8 characters")
	cmd.Flags().StringVar(&role, "role", "admin", "Role (admin, viewer)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newDeleteUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-user",
		Short: "Delete a staff user",
		RunE:  runDeleteUser,
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newService() (*staff.ServiceDDD, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database, log); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return staff.NewServiceDDD(
		repository.NewStaffUserRepository(database.Get(), log),
		auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost),
		auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes),
		log,
	), nil
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	if password == "" {
		p, err := promptPassword()
		if err != nil {
			return err
		}
		password = p
	}

	req := dto.CreateUserRequest{
		Email:    email,
		Name:     userName,
		Password: password,
		Role:     role,
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	user, err := svc.CreateUser(context.Background(), req)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created %s user %s (id %d)\n", user.Role, user.Email, user.ID)
	return nil
}

func runDeleteUser(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	if err := svc.DeleteUser(context.Background(), email); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Printf("Deleted user %s\n", email)
	return nil
}

func promptPassword() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", errors.New("--password is required when stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
