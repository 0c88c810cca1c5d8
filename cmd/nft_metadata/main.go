// cmd/nft_metadata/main.go
package main

import (
	"context"
	"fmt"
	"os"

	consoleout "solstarter/internal/adapters/out/console"
	"solstarter/internal/domain/operation"
	appcfg "solstarter/internal/infra/config"
	"solstarter/internal/platform/cli"
	"solstarter/internal/platform/di"
	shared "solstarter/internal/platform/di/shared"
)

// NFT メタデータ JSON をアップロードし URI を表示する。
// METADATA_FILE があればそれを、なければ既定のレコードを使う。
func main() {
	cli.Run("nft_metadata", shared.Needs{Upload: true}, func(ctx context.Context, cfg appcfg.Config, c *di.Container) error {
		rec, err := loadRecord(cfg.Params.MetadataFile)
		if err != nil {
			err = operation.NewError(operation.KindUploadMetadata, operation.ErrorKindValidation, err)
			consoleout.PrintFailure(os.Stdout, err)
			return err
		}
		_, err = c.OperationUC.UploadMetadata(ctx, rec)
		return err
	})
}

func loadRecord(path string) (operation.MetadataRecord, error) {
	if path == "" {
		return defaultRecord(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return operation.MetadataRecord{}, fmt.Errorf("nft_metadata: read %s: %w", path, err)
	}
	return operation.ParseMetadataRecord(data)
}

const defaultImage = "https://gateway.irys.xyz/3kcAFzrTWNyFJtsXwnf5JSoXKTUrJTWU81cVkLCq4oQB"

func defaultRecord() operation.MetadataRecord {
	return operation.MetadataRecord{
		Name:        "Tyrex Lads",
		Symbol:      "TRX",
		Description: "Rugged NFT for you",
		Image:       defaultImage,
		Attributes: []operation.MetadataAttribute{
			{TraitType: "fun", Value: "high"},
		},
		Properties: operation.MetadataProperties{
			Files: []operation.MetadataFile{
				{Type: "image/png", URI: "image"},
			},
		},
		Creators: []operation.MetadataCreator{},
	}
}
