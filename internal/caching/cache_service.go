package caching

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"sewlovely/internal/models"

	"github.com/redis/go-redis/v9"
)

const productCatalogKey = "sewlovely:products:catalog"

type CacheService interface {
	GetProductCatalog(ctx context.Context) ([]*models.Product, error)
	SetProductCatalog(ctx context.Context, products []*models.Product, ttl time.Duration) error
	InvalidateProductCatalog(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetProductCatalog(ctx context.Context) ([]*models.Product, error) {
	data, err := r.client.Get(ctx, productCatalogKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var products []*models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *redisCacheService) SetProductCatalog(ctx context.Context, products []*models.Product, ttl time.Duration) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productCatalogKey, data, ttl).Err()
}

func (r *redisCacheService) InvalidateProductCatalog(ctx context.Context) error {
	return r.client.Del(ctx, productCatalogKey).Err()
}
