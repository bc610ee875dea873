package main

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/domain/book"
	"bookshelf/internal/storage"
)

var seedTitles = []string{
	"The Go Memory Model",
	"SQLite Internals",
	"Effective Concurrency",
}

// Seeds a development catalog with small placeholder PDFs. Goes
// through the regular add path so blobs exist before their rows.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(&book.Book{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM books")

	blobs, err := storage.Connect(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal("storage connection failed:", err)
	}

	service := book.NewService(book.NewRepository(db), blobs)

	for i, title := range seedTitles {
		payload := []byte(fmt.Sprintf("%%PDF-1.4\n%% seed book %d\n%%%%EOF\n", i+1))
		b, err := service.Add(context.Background(), title+".pdf", int64(len(payload)), book.PDFMimeType, bytes.NewReader(payload))
		if err != nil {
			log.Fatal("seed failed:", err)
		}
		log.Printf("seeded id=%s title=%q url=%s", b.ID, b.Title, b.PublicURL)
	}

	log.Println("Done.")
}
