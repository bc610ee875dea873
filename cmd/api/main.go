package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/domain/book"
	"bookshelf/internal/middleware"
	"bookshelf/internal/storage"
	"bookshelf/internal/web"
)

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&book.Book{}); err != nil {
		log.Fatal(err)
	}

	blobs, err := storage.Connect(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}

	repo := book.NewRepository(db)
	service := book.NewService(repo, blobs)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		book.RegisterRoutes(v1, book.NewHandler(service))
	}

	web.RegisterRoutes(r, web.NewHandler(service))

	// With the disk backend the public URLs point back at this server.
	if cfg.Storage.S3Endpoint == "" {
		r.Static(cfg.Storage.DiskURLBase, cfg.Storage.DiskDir)
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
