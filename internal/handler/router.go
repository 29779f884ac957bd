package handler

import (
	"process-report/internal/form"
	"process-report/internal/middleware"
	"process-report/internal/pdf"
	"process-report/internal/render"
	"process-report/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Orchestrator *service.Orchestrator
	Form         *form.Controller
	Exporter     *pdf.Exporter
	Auth         *service.AuthService
	HTML         *render.HTML
}

func NewRouter(d Deps) *gin.Engine {
	reportH := NewReportHandler(d.Orchestrator, d.Exporter)
	historyH := NewHistoryHandler(d.Orchestrator)
	pageH := NewPageHandler(d.Orchestrator, d.Form, d.Exporter, d.HTML, d.Auth.Enabled())
	authH := NewAuthHandler(d.Auth, d.HTML)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition", "X-New-Token"},
	}))

	r.GET("/login", authH.LoginPage)
	r.POST("/login", authH.LoginForm)
	r.POST("/logout", authH.Logout)
	r.POST("/api/login", authH.Login)

	pages := r.Group("/", middleware.JWTAuth(d.Auth, "/login"))
	pages.GET("/", pageH.Index)
	pages.POST("/generate", pageH.Generate)
	pages.POST("/history/:id/select", pageH.Select)
	pages.POST("/history/clear", pageH.Clear)
	pages.GET("/download", pageH.Download)

	api := r.Group("/api", middleware.JWTAuth(d.Auth, ""))
	api.POST("/reports", reportH.Create)
	api.POST("/reports/stream", reportH.Stream)
	api.GET("/reports/current/pdf", reportH.CurrentPDF)
	api.GET("/state", reportH.State)
	api.GET("/events", reportH.Events)
	api.GET("/history", historyH.List)
	api.POST("/history/:id/select", historyH.Select)
	api.DELETE("/history", historyH.Clear)
	api.GET("/history/:id/pdf", reportH.HistoryPDF)

	return r
}
