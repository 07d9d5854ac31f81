// Package config loads stock-sync settings.
//
// Values come from the environment, with a .env file loaded first through
// godotenv. Every section key maps to an upper-case variable by replacing
// dots with underscores, and struct `default` tags supply the defaults.
//
// # Sections
//
//   - server: API port and key (SERVER_PORT, SERVER_API_KEY)
//   - log: LOG_LEVEL, LOG_FORMAT
//   - woocommerce: WOOCOMMERCE_API_URL, WOOCOMMERCE_CONSUMER_KEY, WOOCOMMERCE_CONSUMER_SECRET, WOOCOMMERCE_TIMEOUT, WOOCOMMERCE_MAX_RETRIES
//   - notion: NOTION_TOKEN, NOTION_DATABASE_ID, NOTION_INDEX_TTL_SECONDS
//   - sync: SYNC_INTERVAL, SYNC_DRY_RUN, SYNC_BACKFILL_SKU, SYNC_REORDER_THRESHOLD
//   - database: cycle history (DATABASE_ENABLED, DATABASE_DRIVER, ...)
//   - storage: report archive (STORAGE_ENABLED, STORAGE_ENDPOINT, ...)
//   - redis: distributed cycle lock (REDIS_ENABLED, REDIS_ADDR, REDIS_LOCK_KEY, ...)
//   - kafka: cycle events (KAFKA_ENABLED, KAFKA_BROKERS, KAFKA_TOPIC)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
