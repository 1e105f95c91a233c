package helpers

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// NewESClient builds an Elasticsearch client with short dial/response
// timeouts. Basic auth is applied only when a username is given.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: 5 * time.Second,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
	}
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Transport: transport,
	}
	if username != "" {
		cfg.Username = username
		cfg.Password = password
	}
	return elasticsearch.NewClient(cfg)
}
