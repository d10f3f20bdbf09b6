package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	intakex "github.com/estateplan/intake-agent/agent/agents/intake"
	llmx "github.com/estateplan/intake-agent/agent/llm"
	statex "github.com/estateplan/intake-agent/agent/state"
	configx "github.com/estateplan/intake-agent/pkg/config"
	gatewayx "github.com/estateplan/intake-agent/pkg/gateway"
	"github.com/estateplan/intake-agent/pkg/httpapi"
	_ "github.com/estateplan/intake-agent/pkg/logger/autoload"
)

func main() {
	gatewayCfg := configx.MustNew[gatewayx.Config]("GATEWAY")
	llmCfg := configx.MustNew[llmx.Config]("LLM")
	pgCfg := configx.MustNew[statex.PostgresConfig]("POSTGRES")
	httpCfg := configx.MustNew[httpapi.Config]("HTTP")

	if err := gatewayCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid gateway configuration")
	}
	log.Info().
		Str("gateway_url", gatewayCfg.URL).
		Str("client_id", gatewayCfg.ClientID).
		Str("client_secret", gatewayx.MaskSecret(gatewayCfg.ClientSecret)).
		Msg("gateway configuration loaded")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	httpClient := &http.Client{Timeout: gatewayCfg.Timeout}

	if strings.TrimSpace(gatewayCfg.TokenURL) == "" {
		endpoint, err := gatewayx.ResolveTokenEndpoint(ctx, httpClient, gatewayCfg.DiscoveryURL())
		if err != nil {
			log.Fatal().Err(err).Msg("resolve token endpoint from discovery")
		}
		gatewayCfg.TokenURL = endpoint
		log.Info().Str("token_url", endpoint).Msg("token endpoint resolved from discovery")
	}

	tokens, err := gatewayx.NewClientCredentialsSource(*gatewayCfg, httpClient)
	if err != nil {
		log.Fatal().Err(err).Msg("build token source")
	}
	if _, err := gatewayx.AcquireToken(ctx, tokens, gatewayCfg.RetryPolicy()); err != nil {
		log.Fatal().Err(err).Msg("acquire gateway access token")
	}

	gatewayClient, err := gatewayx.NewClient(*gatewayCfg, tokens, gatewayx.WithHTTPClient(httpClient))
	if err != nil {
		log.Fatal().Err(err).Msg("build gateway client")
	}

	tools, err := gatewayClient.ListTools(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list gateway tools")
	}
	log.Info().Int("tool_count", len(tools)).Msg("gateway tools loaded")

	completer, err := llmx.NewChatCompleter(*llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build chat completer")
	}

	store, cleanup, err := buildStore(ctx, *pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build session store")
	}
	defer cleanup()

	agent, err := intakex.New(store, completer, tools)
	if err != nil {
		log.Fatal().Err(err).Msg("build intake agent")
	}

	srv, err := httpapi.NewServer(agent, *httpCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build http server")
	}

	go func() {
		log.Info().Str("addr", httpCfg.Addr).Msg("http server listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
}

// buildStore picks the durable Postgres store when a DSN is configured,
// otherwise the in-process store.
func buildStore(ctx context.Context, cfg statex.PostgresConfig) (statex.Store, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		log.Info().Msg("using in-memory session store")
		return statex.NewMemoryStore(), func() {}, nil
	}

	pg, err := statex.NewPostgresStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	log.Info().Msg("using postgres session store")
	return pg, func() {
		if err := pg.Close(); err != nil {
			log.Warn().Err(err).Msg("close postgres store")
		}
	}, nil
}
