package events

import "strings"

// Config holds configuration for cycle event publishing.
type Config struct {
	// Enabled turns publishing on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Brokers is a comma separated list of Kafka brokers.
	Brokers string `mapstructure:"brokers" default:"localhost:9092"`
	// Topic receives every event.
	Topic string `mapstructure:"topic" default:"stock-sync-events"`
}

// BrokerList splits Brokers, dropping empty entries.
func (c Config) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
