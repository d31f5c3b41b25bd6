package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "truverse"
)

// Ключи (состояние)
const (
	// RedisKeySnapshot — JSON-блоб переопределения снапшота дашборда
	RedisKeySnapshot = RedisNamespace + ":dashboard:snapshot"
	// RedisKeyLockWarmupSnapshot — блокировка первичной заливки снапшота
	RedisKeyLockWarmupSnapshot = RedisNamespace + ":lock:warmup:snapshot"
)

// Каналы Pub/Sub (события)
const (
	// RedisChanSnapshotUpdated — сигнал "снапшот заменен, перечитайте источник"
	RedisChanSnapshotUpdated = RedisNamespace + ":dashboard:snapshot-updated"
)

// GetWarmupLockKey Генератор ключей для блокировок (если нужны динамические)
func GetWarmupLockKey(resource string) string {
	return fmt.Sprintf("%s:lock:warmup:%s", RedisNamespace, resource)
}
