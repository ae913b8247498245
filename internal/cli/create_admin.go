package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/repository"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

type adminAccount struct {
	Name     string `validate:"required,max=200"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
}

func newCreateAdminCmd(open StoreOpener) *cobra.Command {
	var acct adminAccount
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a super admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct.Email = strings.ToLower(strings.TrimSpace(acct.Email))
			if err := validator.New().Struct(&acct); err != nil {
				return fmt.Errorf("invalid account: %w", err)
			}
			hash, err := service.HashPassword(acct.Password)
			if err != nil {
				return err
			}
			return withStore(cmd, open, func(ctx context.Context, st *Store) error {
				u := &model.User{
					Name:         strings.TrimSpace(acct.Name),
					Email:        acct.Email,
					PasswordHash: hash,
					Role:         model.RoleSuperAdmin,
				}
				if err := st.Users.CreateUser(ctx, u); err != nil {
					if errors.Is(err, repository.ErrDuplicate) {
						return fmt.Errorf("%s is already registered", acct.Email)
					}
					return err
				}
				cmd.Printf("Created super admin %s (%s)\n", u.Email, u.ID.Hex())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&acct.Name, "name", "", "display name")
	cmd.Flags().StringVar(&acct.Email, "email", "", "login email")
	cmd.Flags().StringVar(&acct.Password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
