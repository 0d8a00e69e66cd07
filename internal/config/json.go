package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/safestorage/internal/flagx"
)

// JsonConfig is the DTO for reading a JSON configuration file. Only fields
// present in the file override the running Config.
type JsonConfig struct {
	AppRoot           *string `json:"app_root"`
	CredentialBackend *string `json:"credential_backend"`
	SubmissionBackend *string `json:"submission_backend"`
	HashAlgorithm     *string `json:"hash_algorithm"`
	ChunkSize         *int    `json:"chunk_size"`
	PipelineDepth     *int    `json:"pipeline_depth"`
	DatabaseDSN       *string `json:"database_dsn"`
	S3Bucket          *string `json:"s3_bucket"`
	S3Region          *string `json:"s3_region"`
	S3BaseEndpoint    *string `json:"s3_base_endpoint"`
	S3AccessKey       *string `json:"s3_access_key"`
	S3SecretKey       *string `json:"s3_secret_key"`
}

// parseJson overlays configuration from the JSON file named by the -c or
// -config flags. No flag, no overlay. An unreadable or invalid file panics:
// an explicitly requested config file that cannot be used is a startup bug,
// not a condition to limp past.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlayString(&config.AppRoot, c.AppRoot)
	overlayString(&config.CredentialBackend, c.CredentialBackend)
	overlayString(&config.SubmissionBackend, c.SubmissionBackend)
	overlayString(&config.HashAlgorithm, c.HashAlgorithm)
	overlayInt(&config.ChunkSize, c.ChunkSize)
	overlayInt(&config.PipelineDepth, c.PipelineDepth)
	overlayString(&config.DatabaseDSN, c.DatabaseDSN)
	overlayString(&config.S3Bucket, c.S3Bucket)
	overlayString(&config.S3Region, c.S3Region)
	overlayString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlayString(&config.S3AccessKey, c.S3AccessKey)
	overlayString(&config.S3SecretKey, c.S3SecretKey)
}

func overlayString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func overlayInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
