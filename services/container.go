// Package services wires the learning core for the HTTP layer.
package services

import (
	"learnhub/config"
	"learnhub/database"
	"learnhub/services/assessment"
	"learnhub/services/catalog"
	"learnhub/services/certificate"
	"learnhub/services/dashboard"
	"learnhub/services/enrollment"
	"learnhub/services/events"
	"learnhub/services/internship"
	"learnhub/services/progress"

	"gorm.io/gorm"
)

type Registry struct {
	Catalog      *catalog.Service
	Enrollments  *enrollment.Service
	Progress     *progress.Service
	Assessments  *assessment.Service
	Certificates *certificate.Service
	Internships  *internship.Service
	Dashboard    *dashboard.Service
}

// Services is the process-wide registry, set by Init.
var Services *Registry

// Init builds the registry on db. cache may be nil.
func Init(db *gorm.DB, cache *database.Cache) *Registry {
	cfg := config.AppConfig
	publisher := events.NewOutboxPublisher(db)

	cat := catalog.NewService(db, catalog.Defaults{
		WatchPercentage: cfg.DefaultWatchPercentage,
		PassingScore:    cfg.DefaultPassingScore,
	})
	enrollments := enrollment.NewService(db, cat, publisher)
	engine := progress.NewService(db, cat, enrollments, progress.Options{MaxPlaybackRate: cfg.MaxPlaybackRate})
	assessments := assessment.NewService(db, cat, engine)

	deps := certificate.Deps{
		Enrollments: enrollments,
		Progress:    engine,
		Assessments: assessments,
		Publisher:   publisher,
		BaseURL:     cfg.CertificateBaseURL,
	}
	if cache != nil {
		deps.Cache = cache
	}
	certificates := certificate.NewService(db, deps)
	engine.OnCourseCompleted(certificates.IssueOnCompletion)

	Services = &Registry{
		Catalog:      cat,
		Enrollments:  enrollments,
		Progress:     engine,
		Assessments:  assessments,
		Certificates: certificates,
		Internships:  internship.NewService(db, cat, publisher),
		Dashboard:    dashboard.NewService(db),
	}
	return Services
}
