package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/company-registry-backend/internal/platform/envutil"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
	"github.com/yungbote/company-registry-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(baseLog *logger.Logger) (*PostgresService, error) {
	serviceLog := baseLog.With("service", "PostgresService")

	postgresHost := envutil.String("POSTGRES_HOST", "localhost")
	postgresPort := envutil.String("POSTGRES_PORT", "5432")
	postgresUser := envutil.String("POSTGRES_USER", "postgres")
	postgresPassword := envutil.String("POSTGRES_PASSWORD", "")
	postgresName := envutil.String("POSTGRES_NAME", "company_registry")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("connecting to postgres", "host", postgresHost, "database", postgresName)
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("auto migrating postgres tables")
	if err := s.db.AutoMigrate(
		&types.Company{},
		&types.Owner{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	// Owners never outlive their company.
	if err := s.db.Exec(`
		ALTER TABLE "owner"
		ADD CONSTRAINT "fk_owner_company_id"
		FOREIGN KEY ("company_id")
		REFERENCES "company"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		s.log.Warn("foreign key constraint not added", "error", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
