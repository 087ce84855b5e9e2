package api

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/abdelwahab/campuscard-api/config"
	"github.com/abdelwahab/campuscard-api/infra/queue"
	"github.com/abdelwahab/campuscard-api/internal/api/rest/handlers"
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/helper"
	"github.com/abdelwahab/campuscard-api/internal/interfaces"
	"github.com/abdelwahab/campuscard-api/internal/repository"
	"github.com/abdelwahab/campuscard-api/internal/services"
	"github.com/abdelwahab/campuscard-api/pkg/storage"
)

func StartServer(cfg *config.Config, log *slog.Logger) {
	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024,
	})

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Error("database connection error", "error", err)
		os.Exit(1)
	}
	log.Info("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260311

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Error("migration lock error", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&domain.Faculty{},
		&domain.Department{},
		&domain.User{},
		&domain.Profile{},
		&domain.BannedWord{},
		&domain.FlaggedContent{},
	); err != nil {
		log.Error("migration error", "error", err)
		os.Exit(1)
	}
	log.Info("migration successful")

	authHelper := helper.SetupAuth(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	academicRepo := repository.NewAcademicRepository(db)
	moderationRepo := repository.NewModerationRepository(db)

	seedAcademics(academicRepo, log)
	ensureAdminUser(cfg, userRepo, profileRepo, academicRepo, authHelper, log)

	_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error

	// ---------- Infra ----------
	minioStorage, err := storage.NewMinioStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioBucket,
		cfg.MinioPublicURL,
		cfg.MinioUseSSL,
	)
	if err != nil {
		log.Error("minio init error", "error", err)
		os.Exit(1)
	}
	if err := minioStorage.EnsureBucket(context.Background()); err != nil {
		log.Error("minio bucket error", "error", err)
		os.Exit(1)
	}

	var producer interfaces.ProducerHandler
	if cfg.KafkaBroker != "" {
		producer = queue.NewProducer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
		)
	}

	// ---------- Services ----------
	moderationSvc := services.NewModerationService(moderationRepo, log)
	loginSvc := services.NewLoginService(userRepo, authHelper)
	signupSvc := services.NewSignUpService(userRepo, academicRepo, minioStorage, authHelper, cfg.EmailDomain)
	adminSvc := services.NewAdminService(userRepo, profileRepo, moderationRepo, producer, log, cfg.TestingMode)
	profileSvc := services.NewProfileService(profileRepo, userRepo, academicRepo, minioStorage, moderationSvc, log)
	publicSvc := services.NewPublicService(academicRepo)

	// ---------- Mail worker ----------
	if cfg.MailWorkerEnabled && cfg.KafkaBroker != "" {
		mailSvc := services.NewMailService(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUsername,
			cfg.SMTPPassword,
			cfg.MailFrom,
			cfg.MailFromName,
			cfg.FrontendURL,
			log,
		)
		consumer := queue.NewKafkaConsumer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaGroupID, mailSvc)
		go consumer.Listen()
		log.Info("mail worker started", "topic", cfg.KafkaTopic)
	}

	// ---------- Handlers ----------
	loginLimiter := newRateLimiter(cfg.RateLimitLoginMax, cfg.RateLimitLoginWindowMin)
	signupLimiter := newRateLimiter(cfg.RateLimitSignupMax, cfg.RateLimitSignupWindowMin)

	handlers.NewAuthHandler(loginSvc, signupSvc, loginLimiter, signupLimiter).SetupRoutes(app)
	handlers.NewAdminHandler(adminSvc, authHelper).SetupRoutes(app)
	handlers.NewProfileHandler(profileSvc, authHelper).SetupRoutes(app)
	handlers.NewPublicHandler(publicSvc).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Info("listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// newRateLimiter builds a per-IP sliding-window limiter that answers
// 429 with a Retry-After header once the window is exhausted.
func newRateLimiter(max, windowMinutes int) fiber.Handler {
	window := time.Duration(windowMinutes) * time.Minute
	return limiter.New(limiter.Config{
		Max:                    max,
		Expiration:             window,
		LimiterMiddleware:      limiter.SlidingWindow{},
		SkipSuccessfulRequests: false,
		LimitReached: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}

func seedAcademics(repo repository.AcademicRepository, log *slog.Logger) {
	count, err := repo.CountFaculties()
	if err != nil || count > 0 {
		return
	}

	faculties := []struct {
		faculty     domain.Faculty
		departments []string
	}{
		{
			faculty: domain.Faculty{
				Name:         "Faculty of Engineering",
				Description:  "Engineering programs across all disciplines",
				YearsNumbers: 5,
			},
			departments: []string{
				"Computer Engineering",
				"Electrical Engineering",
				"Mechanical Engineering",
				"Civil Engineering",
				"Chemical Engineering",
			},
		},
	}

	for _, entry := range faculties {
		f := entry.faculty
		if err := repo.CreateFaculty(&f); err != nil {
			log.Error("failed to seed faculty", "name", f.Name, "error", err)
			continue
		}
		for _, name := range entry.departments {
			d := domain.Department{Name: name, FacultyID: f.ID}
			if err := repo.CreateDepartment(&d); err != nil {
				log.Error("failed to seed department", "name", name, "error", err)
			}
		}
	}
	log.Info("academic reference data seeded")
}

// ensureAdminUser creates the bootstrap admin account: approved,
// pre-verified, with a private profile.
func ensureAdminUser(
	cfg *config.Config,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	academicRepo repository.AcademicRepository,
	auth helper.Auth,
	log *slog.Logger,
) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	if _, err := userRepo.FindUserByEmail(cfg.AdminEmail); err == nil {
		return
	}

	faculty, err := academicRepo.FindFacultyByID(cfg.AdminFacultyID)
	if err != nil {
		log.Error("admin bootstrap: faculty not found", "faculty_id", cfg.AdminFacultyID)
		return
	}
	department, err := academicRepo.FindDepartmentByID(cfg.AdminDepartmentID)
	if err != nil {
		log.Error("admin bootstrap: department not found", "department_id", cfg.AdminDepartmentID)
		return
	}

	hashed, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Error("admin bootstrap: hash error", "error", err)
		return
	}

	birthDate := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	admin := &domain.User{
		Email:          cfg.AdminEmail,
		Password:       hashed,
		FirstName:      cfg.AdminFirstName,
		LastName:       cfg.AdminLastName,
		BirthDate:      &birthDate,
		NationalID:     cfg.AdminNationalID,
		NationalIDScan: "ADMIN_DEFAULT",
		Role:           domain.RoleAdmin,
		Status:         domain.StatusApproved,
		EmailVerified:  true,
		Year:           1,
		FacultyID:      faculty.ID,
		DepartmentID:   department.ID,
	}
	if err := userRepo.CreateUser(admin); err != nil {
		log.Error("admin bootstrap: create user failed", "error", err)
		return
	}

	profile := &domain.Profile{
		UserID:     admin.ID,
		Bio:        "System Administrator",
		Visibility: domain.VisibilityPrivate,
	}
	if err := profileRepo.SaveProfile(profile); err != nil {
		log.Error("admin bootstrap: create profile failed", "error", err)
		return
	}
	log.Info("admin user created", "email", cfg.AdminEmail)
}
