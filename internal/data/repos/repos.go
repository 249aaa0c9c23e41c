// Package repos is the single import point for the persistence layer. The
// per-table implementations live in subpackages.
package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/edubox-backend/internal/data/repos/billing"
	"github.com/yungbote/edubox-backend/internal/data/repos/generation"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type (
	GenerationRepo = generation.GenerationRepo
	UsageRepo      = billing.UsageRepo
)

var (
	NewGenerationRepo = generation.NewGenerationRepo
	NewUsageRepo      = billing.NewUsageRepo
)

// Set holds one instance of every repo over a shared connection.
type Set struct {
	Generation GenerationRepo
	Usage      UsageRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Generation: NewGenerationRepo(db, log),
		Usage:      NewUsageRepo(db, log),
	}
}
