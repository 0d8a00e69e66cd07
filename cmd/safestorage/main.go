package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/safestorage"
	"github.com/dmitrijs2005/safestorage/internal/cli"
	"github.com/dmitrijs2005/safestorage/internal/config"
)

func main() {

	cfg := config.LoadConfig()

	store := safestorage.New(safestorage.Options{
		AppRoot:           cfg.AppRoot,
		CredentialBackend: cfg.CredentialBackend,
		SubmissionBackend: cfg.SubmissionBackend,
		HashAlgorithm:     cfg.HashAlgorithm,
		ChunkSize:         cfg.ChunkSize,
		PipelineDepth:     cfg.PipelineDepth,
		DatabaseDSN:       cfg.DatabaseDSN,
		S3Bucket:          cfg.S3Bucket,
		S3Region:          cfg.S3Region,
		S3BaseEndpoint:    cfg.S3BaseEndpoint,
		S3AccessKey:       cfg.S3AccessKey,
		S3SecretKey:       cfg.S3SecretKey,
	})

	ctx := context.Background()

	if st := store.Init(ctx); !st.OK() {
		log.Fatalf("init failed: %s", st)
	}
	defer store.Deinit(ctx)

	app := cli.NewApp(store)
	app.Run(ctx)
}
