package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"smart-wallet/config"
	"smart-wallet/pkg/assistant"
	"smart-wallet/pkg/client"
	"smart-wallet/pkg/history"
	"smart-wallet/pkg/metrics"
	"smart-wallet/pkg/pricing"
	"smart-wallet/pkg/wallet"
)

// services bundles the components shared by the server and the CLI commands
type services struct {
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	oneClick  *client.OneClickClient
	pricer    *pricing.Pricer
	quoter    *pricing.Quoter
	assistant *assistant.Assistant
	history   *history.Storage
	bridge    *wallet.Bridge
	executor  *wallet.Executor
}

func newServices(cfg *config.Config) (*services, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	coinGecko := client.NewCoinGeckoClient(cfg.CoinGeckoURL, cfg.CoinGeckoAPIKey, cfg.CoinGeckoTimeout)
	oneClick := client.NewOneClickClient(cfg.OneClickJWT, cfg.OneClickBaseURL, cfg.OneClickTimeout)

	sources := []pricing.Source{
		pricing.CoinGeckoSource{Client: coinGecko},
		pricing.OneClickSource{Client: oneClick},
	}
	pricer := pricing.NewPricer(sources, cfg.PriceCacheTTL, logger.Named("pricing"), m)

	var llm assistant.Completer
	if cfg.HasOpenAI() {
		llm = client.NewOpenAIClient(client.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.OpenAITimeout,
		})
	}

	historyPath := cfg.HistoryFile
	if historyPath == "" {
		var err error
		historyPath, err = history.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store, err := history.NewStorage(historyPath)
	if err != nil {
		return nil, err
	}

	bridge, err := wallet.NewBridge(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet bridge: %w", err)
	}

	return &services{
		registry:  reg,
		metrics:   m,
		oneClick:  oneClick,
		pricer:    pricer,
		quoter:    pricing.NewQuoter(pricer),
		assistant: assistant.New(llm, logger.Named("assistant"), m),
		history:   store,
		bridge:    bridge,
		executor:  wallet.NewExecutor(cfg.ExecutionDelay, store, logger.Named("executor"), m),
	}, nil
}

func (s *services) Close() {
	s.bridge.Close()
}
