package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
	"github.com/ternarybob/merx/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db             *BadgerDB
	jobStorage     interfaces.JobStorage
	productStorage interfaces.ProductStorage
	logger         arbor.ILogger
}

// NewManager creates a storage manager with all Badger-backed stores
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:             db,
		jobStorage:     NewJobStorage(db, logger),
		productStorage: NewProductStorage(db, logger),
		logger:         logger,
	}, nil
}

// JobStorage returns the scrape job store
func (m *Manager) JobStorage() interfaces.JobStorage {
	return m.jobStorage
}

// ProductStorage returns the product store
func (m *Manager) ProductStorage() interfaces.ProductStorage {
	return m.productStorage
}

// Close closes the underlying database
func (m *Manager) Close() error {
	return m.db.Close()
}
