package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo accounts",
	Long:  `Seed the database with one account per role for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		hash, err := bcrypt.GenerateFromPassword([]byte("demo12345"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		accounts := []struct {
			Email string
			Role  string
			Perm  *string
		}{
			{"admin@demo.com", "admin", nil},
			{"entidad@demo.com", "entidad", strPtr("captura_reportes")},
			{"auditor@demo.com", "auditor", nil},
			{"ciudadano@demo.com", "ciudadano", nil},
		}

		for _, a := range accounts {
			var exists int
			err := db.QueryRow("SELECT 1 FROM users WHERE email = $1", a.Email).Scan(&exists)
			if err == nil {
				fmt.Printf("user %s already exists, skipping\n", a.Email)
				continue
			}

			_, err = db.Exec(
				"INSERT INTO users (email, hashed_password, role, entidad_perm, created_at, updated_at) VALUES ($1, $2, $3, $4, now(), now())",
				a.Email, string(hash), a.Role, a.Perm,
			)
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", a.Email, err)
			}
			fmt.Printf("seeded %s user: %s\n", a.Role, a.Email)
		}
	},
}

func strPtr(s string) *string {
	return &s
}
