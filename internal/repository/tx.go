package repository

import "gorm.io/gorm"

// TxManager abstracts gorm transactions so services stay testable
type TxManager interface {
	Do(fn func(tx *gorm.DB) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager backed by the given database
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(fn func(tx *gorm.DB) error) error {
	return m.db.Transaction(fn)
}
