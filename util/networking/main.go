package networking

import (
	"net"
	"net/http"
	"sync"
	"time"

	"pitlane/config"
	"pitlane/models"

	"github.com/quic-go/quic-go/http3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	defaultClient     *http.Client
	defaultClientOnce sync.Once
	extractorClients  = make(map[string]models.HTTPClient)
	extractorClientMu sync.Mutex
)

func GetDefaultHTTPClient() *http.Client {
	defaultClientOnce.Do(func() {
		defaultClient = &http.Client{
			Transport: GetBaseTransport(),
			Timeout:   60 * time.Second,
		}
	})
	return defaultClient
}

func GetBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		ResponseHeaderTimeout: 10 * time.Second,
		DisableCompression:    false,
	}
}

func GetExtractorHTTPClient(extractor *models.Extractor) models.HTTPClient {
	extractorClientMu.Lock()
	defer extractorClientMu.Unlock()

	if client, exists := extractorClients[extractor.CodeName]; exists {
		return client
	}

	cfg := withEnvProxy(config.GetExtractorConfig(extractor))
	if cfg == nil {
		return GetDefaultHTTPClient()
	}

	var client models.HTTPClient

	if cfg.EdgeProxyURL != "" {
		client = NewEdgeProxyClientFromConfig(cfg)
	} else {
		client = NewClientFromConfig(cfg)
	}
	if cfg.RateLimit > 0 {
		client = NewRateLimitedClient(client, cfg.RateLimit)
	}
	extractorClients[extractor.CodeName] = client

	return client
}

// ResetExtractorClients drops every cached client so the next call
// to GetExtractorHTTPClient picks up config changes.
func ResetExtractorClients() {
	extractorClientMu.Lock()
	defer extractorClientMu.Unlock()
	extractorClients = make(map[string]models.HTTPClient)
}

func NewClientFromConfig(cfg *models.ExtractorConfig) *http.Client {
	if cfg.HTTP3 {
		if cfg.HTTPProxy != "" || cfg.HTTPSProxy != "" {
			zap.S().Warn("proxies are ignored when http3 is enabled")
		}
		return &http.Client{
			Transport: &http3.Transport{},
			Timeout:   60 * time.Second,
		}
	}
	transport := GetBaseTransport()
	if cfg.HTTPProxy != "" || cfg.HTTPSProxy != "" {
		configureProxyTransport(transport, cfg)
	}
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

type RateLimitedClient struct {
	client  models.HTTPClient
	limiter *rate.Limiter
}

func NewRateLimitedClient(client models.HTTPClient, perSecond float64) *RateLimitedClient {
	return &RateLimitedClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (c *RateLimitedClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return c.client.Do(req)
}

// SetExtractorHTTPClient pins the client used by an extractor,
// bypassing its config.
func SetExtractorHTTPClient(codeName string, client models.HTTPClient) {
	extractorClientMu.Lock()
	defer extractorClientMu.Unlock()
	extractorClients[codeName] = client
}

// withEnvProxy fills the proxy settings missing from cfg with the
// global ones. It returns nil when there is nothing to configure.
func withEnvProxy(cfg *models.ExtractorConfig) *models.ExtractorConfig {
	env := config.Env
	if cfg == nil {
		if env.HTTPProxy == "" && env.HTTPSProxy == "" {
			return nil
		}
		cfg = &models.ExtractorConfig{}
	}
	merged := *cfg
	if merged.HTTPProxy == "" && merged.HTTPSProxy == "" {
		merged.HTTPProxy = env.HTTPProxy
		merged.HTTPSProxy = env.HTTPSProxy
	}
	if merged.NoProxy == "" {
		merged.NoProxy = env.NoProxy
	}
	return &merged
}
