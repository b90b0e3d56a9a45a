package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/agendly/salon-api/internal/config"
)

// AvailabilityCache guarda respostas de disponibilidade por
// (estabelecimento, profissional, data) com TTL curto. É construído no boot
// e injetado explicitamente; nunca um singleton de pacote.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(cfg *config.Config) *AvailabilityCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	return &AvailabilityCache{
		rdb: rdb,
		ttl: cfg.AvailabilityCacheTTL,
	}
}

func (c *AvailabilityCache) key(salonID, professionalID uint, date string) string {
	return fmt.Sprintf("availability:%d:%d:%s", salonID, professionalID, date)
}

// Get desserializa uma resposta cacheada em dst. Retorna false em miss ou
// em qualquer falha de Redis; o chamador recalcula.
func (c *AvailabilityCache) Get(
	ctx context.Context,
	salonID, professionalID uint,
	date string,
	dst any,
) bool {

	raw, err := c.rdb.Get(ctx, c.key(salonID, professionalID, date)).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(raw), dst) == nil
}

func (c *AvailabilityCache) Set(
	ctx context.Context,
	salonID, professionalID uint,
	date string,
	value any,
) {

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	// Falha de escrita no cache não interrompe a requisição.
	c.rdb.Set(ctx, c.key(salonID, professionalID, date), raw, c.ttl)
}

// Invalidate remove a entrada do dia após criar/cancelar/concluir um
// agendamento do profissional.
func (c *AvailabilityCache) Invalidate(
	ctx context.Context,
	salonID, professionalID uint,
	date string,
) {
	c.rdb.Del(ctx, c.key(salonID, professionalID, date))
}

func (c *AvailabilityCache) Close() error {
	return c.rdb.Close()
}
