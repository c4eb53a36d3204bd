// shelfctl is the operator's companion tool: create accounts and seed a
// fresh database with sample data.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shelfshare/shelfshare/internal/netx"
	"github.com/shelfshare/shelfshare/internal/server/blob"
	"github.com/shelfshare/shelfshare/internal/server/config"
	"github.com/shelfshare/shelfshare/internal/server/models"
	"github.com/shelfshare/shelfshare/internal/server/repositories/repomanager"
	"github.com/shelfshare/shelfshare/internal/server/services"
)

func main() {
	root := &cobra.Command{
		Use:   "shelfctl",
		Short: "ShelfShare administration tool",
	}

	root.AddCommand(newCreateUserCmd())
	root.AddCommand(newSeedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func openServices(ctx context.Context) (*services.UserService, *services.FriendshipService, *services.BookService, *sql.DB, error) {
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := blob.NewS3Store(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, nil, nil, nil, fmt.Errorf("blob store init error: %w", err)
	}

	users := services.NewUserService(db, m, blobs, cfg)
	friendships := services.NewFriendshipService(db, m)
	books := services.NewBookService(db, m, blobs)
	return users, friendships, books, db, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(raw)), nil
}

func newCreateUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-user <username> <email>",
		Short: "Create an account, prompting for the password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			users, _, _, db, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			user, err := users.Register(ctx, args[0], args[1], password)
			if err != nil {
				return err
			}

			fmt.Printf("created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate a fresh database with sample users, friendships and books",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			users, friendships, books, db, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			alice, err := users.Register(ctx, "alice", "alice@example.com", "alicepassword")
			if err != nil {
				return fmt.Errorf("seeding alice: %w", err)
			}
			bob, err := users.Register(ctx, "bob", "bob@example.com", "bobpassword")
			if err != nil {
				return fmt.Errorf("seeding bob: %w", err)
			}
			carol, err := users.Register(ctx, "carol", "carol@example.com", "carolpassword")
			if err != nil {
				return fmt.Errorf("seeding carol: %w", err)
			}

			// alice and bob are friends; carol has a request pending to alice
			edge, err := friendships.SendRequest(ctx, alice.ID, bob.ID)
			if err != nil {
				return fmt.Errorf("seeding friendship: %w", err)
			}
			if err := friendships.Respond(ctx, bob.ID, edge.ID, true); err != nil {
				return fmt.Errorf("accepting friendship: %w", err)
			}
			if _, err := friendships.SendRequest(ctx, carol.ID, alice.ID); err != nil {
				return fmt.Errorf("seeding pending request: %w", err)
			}

			seedBooks := []struct {
				owner      int64
				title      string
				author     string
				genre      string
				visibility models.Visibility
			}{
				{alice.ID, "Dune", "Frank Herbert", "Sci-Fi", models.VisibilityPublic},
				{alice.ID, "Reading Journal", "Alice", "Unknown", models.VisibilityPrivate},
				{bob.ID, "The Hobbit", "J.R.R. Tolkien", "Fantasy", models.VisibilityPublic},
				{carol.ID, "Sapiens", "Yuval Noah Harari", "History", models.VisibilityPublic},
			}
			var first *models.Book
			for _, b := range seedBooks {
				created, err := books.Create(ctx, b.owner, b.title, b.author, b.genre, b.visibility)
				if err != nil {
					return fmt.Errorf("seeding book %q: %w", b.title, err)
				}
				if first == nil {
					first = created
				}
			}

			// attach a sample text to the first book through the regular
			// presigned-upload flow
			sample := []byte("Arrakis. Dune. Desert planet.\n")
			upload, err := books.AttachFile(ctx, first.OwnerID, first.ID, "sample.txt", "txt", int64(len(sample)))
			if err != nil {
				return fmt.Errorf("seeding file metadata: %w", err)
			}
			if err := netx.UploadToPresignedURL(ctx, upload.URL, sample); err != nil {
				return fmt.Errorf("uploading sample file: %w", err)
			}

			fmt.Println("seeded 3 users, 1 friendship, 1 pending request, 4 books, 1 file")
			return nil
		},
	}
}
