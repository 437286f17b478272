package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wickmon/wickmon/internal/repo"
	"github.com/wickmon/wickmon/internal/service/monitor"
	"github.com/wickmon/wickmon/internal/service/notification/dingtalk"
	"github.com/wickmon/wickmon/internal/web"
	"github.com/wickmon/wickmon/ioc"
)

func initViper() {
	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

func main() {
	initViper()

	db := ioc.InitDB()
	if err := repo.InitTables(db); err != nil {
		panic(err)
	}

	credentialRepo := repo.NewCredentialRepo(db)
	policyRepo := repo.NewPolicyRepo(db)
	signalRepo := repo.NewSignalRepo(db)
	orderRepo := repo.NewOrderRepo(db)

	gateSvc := ioc.InitGateService()
	notifier := dingtalk.NewService()

	// 启动时预加载激活凭证, 不依赖后台巡检
	if cred, err := credentialRepo.GetActive(context.Background()); err == nil && cred != nil {
		gateSvc.UpdateCredentials(cred.ApiKey, cred.SecretKey)
		if cred.Cookie != "" {
			gateSvc.SetCookie(cred.Cookie)
		}
		if cred.Contracts != "" {
			if err = gateSvc.SetContracts(cred.Contracts); err != nil {
				slog.Error("failed to load contract cache", "error", err)
			}
		}
		if cred.WebhookURL != "" {
			notifier.SetWebhook(cred.WebhookURL)
		}
		slog.Info("loaded active credential", "name", cred.Name)
	}

	monitorSvc := monitor.NewService(gateSvc, notifier, credentialRepo, policyRepo, signalRepo, orderRepo)
	server := web.NewServer(gateSvc, monitorSvc, notifier, credentialRepo, policyRepo, signalRepo, orderRepo)

	engine := gin.Default()
	server.RegisterRoutes(engine)

	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = "localhost:3000"
	}
	slog.Info("server starting", "addr", addr)
	if err := engine.Run(addr); err != nil {
		panic(err)
	}
}
