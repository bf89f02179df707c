package models

import (
	"time"

	"gorm.io/datatypes"
)

type ImportRun struct {
	ID         string           `gorm:"type:uuid;primaryKey"`
	SourcePath string           `gorm:"type:text;not null"`
	Errors     []ImportRowError `gorm:"foreignKey:ImportRunID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}

func (ImportRun) TableName() string {
	return "import_runs"
}

// ImportRowError survives the rollback of its run, so it is written outside
// the run's unit of work.
type ImportRowError struct {
	ID          uint           `gorm:"primaryKey"`
	ImportRunID string         `gorm:"type:uuid;not null;index"`
	RowIndex    int            `gorm:"not null"`
	RawRow      datatypes.JSON `gorm:"not null"`
	ErrorDetail string         `gorm:"type:text;not null"`
	CreatedAt   time.Time
}

func (ImportRowError) TableName() string {
	return "import_row_errors"
}
