package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/GlebRadaev/marketplace/internal/pg"
	"github.com/GlebRadaev/marketplace/internal/repo"
	"github.com/GlebRadaev/marketplace/internal/seed"
	"github.com/GlebRadaev/marketplace/pkg/auth"
)

func seedCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo users, listings and ledger entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if migrate {
				if err := pg.RunMigrations(pool); err != nil {
					return err
				}
			}

			hash, err := (&auth.HashService{}).HashPassword(seed.DemoPassword)
			if err != nil {
				return err
			}
			repos := repo.New(pg.New(pool), pg.NewTXManager(pool))
			loaded, err := seed.New(repos.UserRepo, repos.ItemRepo, repos.TransactionRepo, repos.TxManager).
				Load(cmd.Context(), seed.Demo(time.Now(), hash))
			if err != nil {
				return err
			}
			if !loaded {
				fmt.Fprintln(cmd.OutOrStdout(), "Demo data already present, nothing to do.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Demo data loaded. Log in with any demo email and password %q.\n", seed.DemoPassword)
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations first")
	return cmd
}
