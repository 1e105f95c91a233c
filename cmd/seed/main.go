package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"inkwell/config"
	"inkwell/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@inkwell.local"
	password := "password123"
	username := "demoWriter"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, username, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id::text
	`, email, hash, username, "").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed account: %v", err)
	}
	fmt.Printf("seeded account: id=%s email=%s username=%s password=%s\n", id, email, username, password)

	posts := []struct {
		title   string
		content string
	}{
		{"Hello, Inkwell", "The first post on a fresh install. Edit or delete it once you have written something of your own."},
		{"Writing with cover images", "Attach a cover to any post. Covers are stored in object storage and served from a public URL."},
	}

	for _, p := range posts {
		var postID string
		err := db.QueryRow(`
			INSERT INTO posts (title, content, author_id)
			VALUES ($1, $2, $3::uuid)
			RETURNING id::text
		`, p.title, p.content, id).Scan(&postID)
		if err != nil {
			log.Fatalf("failed to seed post %q: %v", p.title, err)
		}
		fmt.Printf("seeded post: id=%s title=%q\n", postID, p.title)
	}
}
