package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"koperasimart/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Barang caching
	GetBarang(ctx context.Context, tenantID, barangID uuid.UUID) (*models.Barang, error)
	SetBarang(ctx context.Context, tenantID uuid.UUID, barang *models.Barang, ttl time.Duration) error
	DeleteBarang(ctx context.Context, tenantID, barangID uuid.UUID) error

	// Barang list snapshot caching, keyed per tenant. The snapshot feeds the
	// in-memory query engine; any write to barang drops it.
	GetBarangSnapshot(ctx context.Context, tenantID uuid.UUID) ([]*models.Barang, error)
	SetBarangSnapshot(ctx context.Context, tenantID uuid.UUID, items []*models.Barang, ttl time.Duration) error
	DeleteBarangSnapshot(ctx context.Context, tenantID uuid.UUID) error

	// Kategori caching
	GetKategori(ctx context.Context, tenantID, kategoriID uuid.UUID) (*models.Kategori, error)
	SetKategori(ctx context.Context, tenantID uuid.UUID, kategori *models.Kategori, ttl time.Duration) error
	DeleteKategori(ctx context.Context, tenantID, kategoriID uuid.UUID) error

	// Satuan caching
	GetSatuan(ctx context.Context, tenantID, satuanID uuid.UUID) (*models.Satuan, error)
	SetSatuan(ctx context.Context, tenantID uuid.UUID, satuan *models.Satuan, ttl time.Duration) error
	DeleteSatuan(ctx context.Context, tenantID, satuanID uuid.UUID) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error
	InvalidateAllCache(ctx context.Context) error

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Parse Redis URL to extract host:port if protocol is included
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	log.Printf("DEBUG: Creating Redis client with address: %s (original: %s)", parsedAddr, addr)

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	} else {
		log.Printf("DEBUG: Redis connection established successfully")
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetBarang(ctx context.Context, tenantID, barangID uuid.UUID) (*models.Barang, error) {
	key := fmt.Sprintf("koperasimart:barang:%s:%s", tenantID.String(), barangID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var barang models.Barang
	if err := json.Unmarshal(data, &barang); err != nil {
		return nil, err
	}
	return &barang, nil
}

func (r *redisCacheService) SetBarang(ctx context.Context, tenantID uuid.UUID, barang *models.Barang, ttl time.Duration) error {
	key := fmt.Sprintf("koperasimart:barang:%s:%s", tenantID.String(), barang.ID.String())
	data, err := json.Marshal(barang)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteBarang(ctx context.Context, tenantID, barangID uuid.UUID) error {
	key := fmt.Sprintf("koperasimart:barang:%s:%s", tenantID.String(), barangID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetBarangSnapshot(ctx context.Context, tenantID uuid.UUID) ([]*models.Barang, error) {
	key := fmt.Sprintf("koperasimart:barang-snapshot:%s:list", tenantID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var items []*models.Barang
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *redisCacheService) SetBarangSnapshot(ctx context.Context, tenantID uuid.UUID, items []*models.Barang, ttl time.Duration) error {
	key := fmt.Sprintf("koperasimart:barang-snapshot:%s:list", tenantID.String())
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteBarangSnapshot(ctx context.Context, tenantID uuid.UUID) error {
	key := fmt.Sprintf("koperasimart:barang-snapshot:%s:list", tenantID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetKategori(ctx context.Context, tenantID, kategoriID uuid.UUID) (*models.Kategori, error) {
	key := fmt.Sprintf("koperasimart:kategori:%s:%s", tenantID.String(), kategoriID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var kategori models.Kategori
	if err := json.Unmarshal(data, &kategori); err != nil {
		return nil, err
	}
	return &kategori, nil
}

func (r *redisCacheService) SetKategori(ctx context.Context, tenantID uuid.UUID, kategori *models.Kategori, ttl time.Duration) error {
	key := fmt.Sprintf("koperasimart:kategori:%s:%s", tenantID.String(), kategori.ID.String())
	data, err := json.Marshal(kategori)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteKategori(ctx context.Context, tenantID, kategoriID uuid.UUID) error {
	key := fmt.Sprintf("koperasimart:kategori:%s:%s", tenantID.String(), kategoriID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetSatuan(ctx context.Context, tenantID, satuanID uuid.UUID) (*models.Satuan, error) {
	key := fmt.Sprintf("koperasimart:satuan:%s:%s", tenantID.String(), satuanID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var satuan models.Satuan
	if err := json.Unmarshal(data, &satuan); err != nil {
		return nil, err
	}
	return &satuan, nil
}

func (r *redisCacheService) SetSatuan(ctx context.Context, tenantID uuid.UUID, satuan *models.Satuan, ttl time.Duration) error {
	key := fmt.Sprintf("koperasimart:satuan:%s:%s", tenantID.String(), satuan.ID.String())
	data, err := json.Marshal(satuan)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteSatuan(ctx context.Context, tenantID, satuanID uuid.UUID) error {
	key := fmt.Sprintf("koperasimart:satuan:%s:%s", tenantID.String(), satuanID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("koperasimart:*:%s:*", tenantID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) InvalidateAllCache(ctx context.Context) error {
	pattern := "koperasimart:*"
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
