package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/domain/book"
	"bookshelf/internal/storage"
)

// Garbage-collects orphaned blobs: objects in the store no books row
// references. Orphans appear when the metadata insert fails after a
// successful upload; the add path deliberately never cleans them up
// inline, this job does it out of band.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	blobs, err := storage.Connect(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("storage connect failed: %v", err)
	}

	ctx := context.Background()
	repo := book.NewRepository(db)

	names, err := repo.StoredNames(ctx)
	if err != nil {
		log.Fatalf("listing stored names failed: %v", err)
	}
	referenced := make(map[string]bool, len(names))
	for _, n := range names {
		referenced[n] = true
	}

	keys, err := blobs.List(ctx, "")
	if err != nil {
		log.Fatalf("listing objects failed: %v", err)
	}

	removed := 0
	for _, key := range keys {
		if referenced[key] {
			continue
		}
		if err := blobs.Delete(ctx, key); err != nil {
			log.Printf("orphan_delete_failed key=%s error=%q", key, err)
			continue
		}
		log.Printf("orphan_removed key=%s", key)
		removed++
	}

	log.Printf("reconcile completed: objects=%d referenced=%d removed=%d", len(keys), len(referenced), removed)
}
