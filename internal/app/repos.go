package app

import (
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/repos"
)

type Repos struct {
	StaffUser      repos.StaffUserRepo
	PackageSession repos.PackageSessionRepo
	Subject        repos.SubjectRepo
	Module         repos.ModuleRepo
	Chapter        repos.ChapterRepo
	Slide          repos.SlideRepo
	Settings       repos.SettingsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		StaffUser:      repos.NewStaffUserRepo(db, log),
		PackageSession: repos.NewPackageSessionRepo(db, log),
		Subject:        repos.NewSubjectRepo(db, log),
		Module:         repos.NewModuleRepo(db, log),
		Chapter:        repos.NewChapterRepo(db, log),
		Slide:          repos.NewSlideRepo(db, log),
		Settings:       repos.NewSettingsRepo(db, log),
	}
}
