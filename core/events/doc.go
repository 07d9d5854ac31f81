// Package events publishes cycle outcomes to Kafka so other systems can react
// to stock changes without polling the stores.
package events
