// Package woocommerce implements the catalog gateway over the WooCommerce
// REST API (wc/v3).
//
// Requests authenticate with the consumer key and secret over basic auth and
// go through a retry.Transport, so timeouts, dropped connections and 429 or
// 5xx gateway answers are retried with exponential backoff. Any other 4xx
// answer is returned as an *APIError.
//
// Products and variations without a SKU get a generated one (see core/sku)
// that the gateway can resolve again by the ids it encodes.
package woocommerce
