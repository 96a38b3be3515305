package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/notoria-edu/classroom-api/api/swagger"
	"github.com/notoria-edu/classroom-api/internal/handler"
	"github.com/notoria-edu/classroom-api/internal/middleware"
	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/repository"
	"github.com/notoria-edu/classroom-api/internal/service"
	"github.com/notoria-edu/classroom-api/pkg/cache"
	"github.com/notoria-edu/classroom-api/pkg/config"
	"github.com/notoria-edu/classroom-api/pkg/database"
	"github.com/notoria-edu/classroom-api/pkg/logger"
	"github.com/notoria-edu/classroom-api/pkg/mailer"
	corsmiddleware "github.com/notoria-edu/classroom-api/pkg/middleware/cors"
	reqidmiddleware "github.com/notoria-edu/classroom-api/pkg/middleware/requestid"
)

// @title Notoria Classroom API
// @version 1.0.0
// @description Classroom management API: classrooms, enrollments, activities, submissions and chat.
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, classroom cache disabled", "error", err)
			redisClient = nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()

	// repositories
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr, cfg.Cache.TTL)

	// services
	var mail mailer.Mailer = mailer.Noop{}
	if cfg.Mail.Enabled {
		mail = mailer.NewSendgrid(cfg.Mail)
	}
	notifications := service.NewNotificationService(mail, cfg.Mail, logr)
	notifications.Start(ctx)
	defer notifications.Stop()

	metrics := service.NewMetricsService()
	access := service.NewAccessService(classroomRepo, studentRepo, activityRepo, enrollmentRepo)
	auth := service.NewAuthService(teacherRepo, studentRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	teachers := service.NewTeacherService(teacherRepo, validate, logr)
	students := service.NewStudentService(studentRepo, classroomRepo, enrollmentRepo, access, notifications, validate, logr)
	classrooms := service.NewClassroomService(classroomRepo, enrollmentRepo, cacheRepo, access, metrics, validate, logr)
	enrollments := service.NewEnrollmentService(db, enrollmentRepo, activityRepo, submissionRepo, cacheRepo, access, metrics, validate, logr)
	activities := service.NewActivityService(db, activityRepo, enrollmentRepo, submissionRepo, access, metrics, validate, logr)
	submissions := service.NewSubmissionService(submissionRepo, access, validate, logr)
	chat := service.NewChatService(conversationRepo, studentRepo, access, validate, logr)

	// handlers
	authHandler := handler.NewAuthHandler(auth)
	teacherHandler := handler.NewTeacherHandler(teachers)
	studentHandler := handler.NewStudentHandler(students, teachers)
	classroomHandler := handler.NewClassroomHandler(classrooms)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollments)
	activityHandler := handler.NewActivityHandler(activities)
	submissionHandler := handler.NewSubmissionHandler(submissions)
	chatHandler := handler.NewChatHandler(chat)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	requireAuth := middleware.JWT(auth)
	teacherOnly := middleware.RequireRoles(models.RoleTeacher)
	studentOnly := middleware.RequireRoles(models.RoleStudent)
	anyRole := middleware.RequireRoles(models.RoleTeacher, models.RoleStudent)

	teacher := api.Group("/teacher")
	{
		teacher.POST("", teacherHandler.Register)
		teacher.POST("/login", authHandler.LoginTeacher)
		teacher.GET("/profile", requireAuth, teacherOnly, teacherHandler.Profile)
		teacher.PUT("/profile", requireAuth, teacherOnly, teacherHandler.UpdateProfile)
		teacher.POST("/students", requireAuth, teacherOnly, studentHandler.Create)
		teacher.GET("/students", requireAuth, teacherOnly, studentHandler.List)
		teacher.PUT("/students/:studentId", requireAuth, teacherOnly, studentHandler.Update)
		teacher.DELETE("/students/:studentId", requireAuth, teacherOnly, studentHandler.Delete)
	}

	student := api.Group("/student")
	{
		student.POST("/login", authHandler.LoginStudent)
		student.PUT("/change-password", requireAuth, studentOnly, studentHandler.ChangePassword)
		student.GET("/classrooms", requireAuth, studentOnly, studentHandler.ListClassrooms)
		student.GET("/classrooms/:classroomId", requireAuth, studentOnly, studentHandler.GetClassroom)
		student.GET("/mates/:classroomId", requireAuth, studentOnly, studentHandler.ListClassmates)
	}

	classroomGroup := api.Group("/classrooms", requireAuth, teacherOnly)
	{
		classroomGroup.POST("", classroomHandler.Create)
		classroomGroup.GET("", classroomHandler.List)
		classroomGroup.GET("/:classroomId", classroomHandler.Get)
		classroomGroup.PUT("/:classroomId", classroomHandler.Update)
		classroomGroup.DELETE("/:classroomId", classroomHandler.Delete)
		classroomGroup.GET("/:classroomId/report", classroomHandler.Report)
		classroomGroup.GET("/:classroomId/students", enrollmentHandler.ListStudents)
		classroomGroup.POST("/:classroomId/students/:studentId", enrollmentHandler.Enroll)
		classroomGroup.GET("/:classroomId/students/:studentId", enrollmentHandler.GetStudent)
		classroomGroup.DELETE("/:classroomId/students/:studentId", enrollmentHandler.Unenroll)
		classroomGroup.PATCH("/:classroomId/students/:studentId/score", enrollmentHandler.UpdateScore)
	}

	activityGroup := api.Group("/activities", requireAuth)
	{
		// student routes first: gin resolves static segments before params
		activityGroup.GET("/student", studentOnly, submissionHandler.ListMine)
		activityGroup.GET("/student/:classroomId", studentOnly, submissionHandler.ListMineByClassroom)
		activityGroup.GET("/student/:classroomId/activities", studentOnly, activityHandler.ListForStudent)
		activityGroup.PATCH("/student/:activityId/submissions", studentOnly, submissionHandler.Submit)
		activityGroup.DELETE("/student/activities/:activityId/submissions", studentOnly, submissionHandler.ClearOwn)

		activityGroup.GET("/submissions", teacherOnly, submissionHandler.ListByTeacher)
		activityGroup.GET("/submissions/:classroomId/:studentId", teacherOnly, submissionHandler.ListByClassroomAndStudent)
		activityGroup.GET("/submission/:submissionId", teacherOnly, submissionHandler.Get)
		activityGroup.PATCH("/submission/:submissionId/grade", teacherOnly, submissionHandler.Grade)

		// the GET tree shares one wildcard name: gin rejects sibling
		// wildcards with different names
		activityGroup.POST("/:classroomId", teacherOnly, activityHandler.Create)
		activityGroup.GET("/:id/activities", teacherOnly, activityHandler.ListByClassroom)
		activityGroup.GET("/:id/submissions", teacherOnly, submissionHandler.ListByActivity)
		activityGroup.PUT("/:activityId", teacherOnly, activityHandler.Update)
		activityGroup.DELETE("/:activityId", teacherOnly, activityHandler.Delete)
	}

	chatGroup := api.Group("/chat", requireAuth, anyRole)
	{
		chatGroup.POST("", chatHandler.SendMessage)
		chatGroup.GET("/conversations", chatHandler.ListConversations)
		chatGroup.GET("/conversations/:id/messages", chatHandler.ListMessages)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
