package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/safestorage/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-r string   app root directory ("" = current working directory)
//	-b string   credential backend: ledger | postgres
//	-f string   submission backend: fs | s3
//	-a string   hash algorithm: sha256 | argon2id
//	-z int      transfer chunk size, bytes
//	-w int      transfer pipeline depth, chunks
//	-d string   PostgreSQL DSN
//	-t string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-u string   S3 access key
//	-p string   S3 secret key
//
// Args are first filtered with flagx.FilterArgs so flags owned by other
// components do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-r", "-b", "-f", "-a", "-z", "-w", "-d", "-t", "-g", "-e", "-u", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.AppRoot, "r", config.AppRoot, "app root directory")
	fs.StringVar(&config.CredentialBackend, "b", config.CredentialBackend, "credential backend (ledger|postgres)")
	fs.StringVar(&config.SubmissionBackend, "f", config.SubmissionBackend, "submission backend (fs|s3)")
	fs.StringVar(&config.HashAlgorithm, "a", config.HashAlgorithm, "hash algorithm (sha256|argon2id)")
	fs.IntVar(&config.ChunkSize, "z", config.ChunkSize, "transfer chunk size in bytes")
	fs.IntVar(&config.PipelineDepth, "w", config.PipelineDepth, "transfer pipeline depth in chunks")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3Bucket, "t", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
