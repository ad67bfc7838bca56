package config

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus/client/v2/milvusclient"
)

func ConnectMilvus(cfg *Config) (*milvusclient.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  cfg.MilvusAddr,
		Username: cfg.MilvusUser,
		Password: cfg.MilvusPassword,
		DBName:   cfg.MilvusDatabase,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Milvus: %v", err)
	}

	return client, nil
}
