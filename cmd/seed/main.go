// Package main provides a tool to seed the catalog with sample books,
// vocabulary, and an admin account for local development.
//
// Usage:
//
//	DATA_PATH=~/treehouse go run ./cmd/seed
//	DATA_PATH=~/treehouse go run ./cmd/seed --admin-password=secret
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/treehouse-books/treehouse-server/internal/auth"
	"github.com/treehouse-books/treehouse-server/internal/domain"
	"github.com/treehouse-books/treehouse-server/internal/graph"
	"github.com/treehouse-books/treehouse-server/internal/id"
	"github.com/treehouse-books/treehouse-server/internal/search"
	"github.com/treehouse-books/treehouse-server/internal/store"
)

var adminPassword = flag.String("admin-password", "", "Create an admin account with this password")

type seedBook struct {
	title  string
	author string
	genres []domain.Genre
	tags   []string
}

var sampleBooks = []seedBook{
	{"The Cloud Garden", "Rosa Marchetti", []domain.Genre{domain.GenreFantasy}, []string{"clouds", "gardens", "friendship"}},
	{"Storm Chasers", "Elena Okafor", []domain.Genre{domain.GenreAdventure, domain.GenreScience}, []string{"clouds", "weather"}},
	{"The Midnight Library Mouse", "Tomas Vidal", []domain.Genre{domain.GenreMystery}, []string{"animals", "libraries"}},
	{"How Volcanoes Work", "Priya Nair", []domain.Genre{domain.GenreScience, domain.GenreEducation}, []string{"volcanoes", "earth"}},
	{"The Lighthouse Keeper's Daughter", "Elena Okafor", []domain.Genre{domain.GenreHistorical, domain.GenreFiction}, []string{"sea", "friendship"}},
	{"Paws Across the Andes", "Tomas Vidal", []domain.Genre{domain.GenreAdventure}, []string{"animals", "mountains"}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/treehouse")
	}

	fmt.Printf("Seeding data under: %s\n", dataPath)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	catalog, err := store.New(dataPath+"/catalog", logger)
	if err != nil {
		log.Fatalf("Failed to open catalog store: %v", err)
	}
	defer catalog.Close()

	graphStore, err := graph.Open(dataPath+"/graph.db", logger)
	if err != nil {
		log.Fatalf("Failed to open graph store: %v", err)
	}
	defer graphStore.Close()

	index, err := search.NewIndex(search.Options{DataPath: dataPath + "/search", Logger: logger})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	ctx := context.Background()

	if *adminPassword != "" {
		if err := createAdmin(ctx, catalog, *adminPassword); err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
	}

	books, err := catalog.ListBooks(ctx)
	if err != nil {
		log.Fatalf("Failed to list books: %v", err)
	}
	if len(books) > 0 {
		fmt.Printf("Catalog already has %d books, skipping book seed\n", len(books))
	} else {
		if err := seedCatalog(ctx, catalog); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	// Rebuild both projections from the catalog.
	syncer := graph.NewSyncer(graphStore, catalog, logger)
	if err := syncer.Sync(ctx); err != nil {
		log.Fatalf("Failed to sync graph: %v", err)
	}

	books, err = catalog.ListBooks(ctx)
	if err != nil {
		log.Fatalf("Failed to list books: %v", err)
	}
	docs := make([]*search.Document, 0, len(books))
	for _, b := range books {
		docs = append(docs, search.BookToDocument(b))
	}
	if err := index.IndexDocuments(docs); err != nil {
		log.Fatalf("Failed to index books: %v", err)
	}

	fmt.Printf("Done. %d books in catalog, graph and search index rebuilt.\n", len(books))
}

func seedCatalog(ctx context.Context, catalog *store.Store) error {
	for _, sb := range sampleBooks {
		bookID, err := id.Generate("book")
		if err != nil {
			return err
		}

		book := &domain.Book{
			ID:        bookID,
			Title:     sb.title,
			Author:    sb.author,
			Genres:    sb.genres,
			Tags:      sb.tags,
			AgeRange:  domain.DefaultAgeRange,
			CreatedAt: time.Now().UTC(),
		}
		if err := catalog.CreateBook(ctx, book); err != nil {
			return err
		}
		fmt.Printf("  created %q (%s)\n", sb.title, bookID)

		entries := []domain.VocabularyEntry{
			{
				Word:          "horizon",
				Definition:    "the line where the sky seems to meet the ground",
				Options:       "a kind of boat, a loud noise, a small window",
				CorrectAnswer: "the line where the sky seems to meet the ground",
			},
			{
				Word:          "courage",
				Definition:    "being brave when something is scary",
				Options:       "a type of soup, a long sleep, a fast run",
				CorrectAnswer: "being brave when something is scary",
			},
		}
		for i := range entries {
			entryID, err := id.Generate("vocab")
			if err != nil {
				return err
			}
			entries[i].ID = entryID
		}
		if err := catalog.AddVocabulary(ctx, bookID, entries); err != nil {
			return err
		}
	}
	return nil
}

func createAdmin(ctx context.Context, catalog *store.Store, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	userID, err := id.Generate("user")
	if err != nil {
		return err
	}

	user := &domain.User{
		ID:           userID,
		Username:     "admin",
		Email:        "admin@treehouse.local",
		PasswordHash: hash,
		Age:          30,
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	}

	err = catalog.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			fmt.Println("Admin account already exists, skipping")
			return nil
		}
		return err
	}

	fmt.Printf("Created admin account (%s)\n", userID)
	return nil
}
