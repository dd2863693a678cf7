//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/agri-advisor/internal/bootstrap"
	"github.com/yanqian/agri-advisor/internal/domain/advisory"
	"github.com/yanqian/agri-advisor/internal/domain/alerts"
	"github.com/yanqian/agri-advisor/internal/domain/calendar"
	"github.com/yanqian/agri-advisor/internal/domain/farmer"
	"github.com/yanqian/agri-advisor/internal/domain/fieldscan"
	"github.com/yanqian/agri-advisor/internal/infra/calendarxlsx"
	"github.com/yanqian/agri-advisor/internal/infra/config"
	"github.com/yanqian/agri-advisor/internal/infra/llm/chatgpt"
	httpiface "github.com/yanqian/agri-advisor/internal/interface/http"
	"github.com/yanqian/agri-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAdvisoryConfig,
		provideChatGPTClient,
		provideTokenCounter,
		provideFarmerConfig,
		provideFarmerRepository,
		provideFieldScanConfig,
		providePhotoStorage,
		provideRateLimiter,
		calendarxlsx.NewRenderer,
		advisory.NewService,
		alerts.NewService,
		farmer.NewService,
		fieldscan.NewService,
		calendar.NewService,
		wire.Bind(new(advisory.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(calendar.Renderer), new(*calendarxlsx.Renderer)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
