package blackjacktable

import (
	"errors"
	"sync"

	"github.com/weedbox/blackjacktable/card"
)

var (
	ErrManagerTableNotFound = errors.New("manager: table not found")
	ErrManagerTableExists   = errors.New("manager: table already exists")
)

// Manager keeps one engine per table. Engines never share state.
type Manager interface {
	Reset()

	GetTableEngine(tableID string) (TableEngine, error)
	CreateTable(options *TableEngineOptions, shoe card.Shoe, setting TableSetting, opts ...TableEngineOpt) (TableEngine, *Table, error)
	CloseTable(tableID string) error
	CloseAll()
	ListTables() []string
}

type manager struct {
	tableEngines sync.Map
	mu           sync.Mutex
}

func NewManager() Manager {
	return &manager{
		tableEngines: sync.Map{},
	}
}

func (m *manager) Reset() {
	m.CloseAll()
}

func (m *manager) GetTableEngine(tableID string) (TableEngine, error) {
	tableEngine, exist := m.tableEngines.Load(tableID)
	if !exist {
		return nil, ErrManagerTableNotFound
	}
	return tableEngine.(TableEngine), nil
}

func (m *manager) CreateTable(options *TableEngineOptions, shoe card.Shoe, setting TableSetting, opts ...TableEngineOpt) (TableEngine, *Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if setting.TableID != "" {
		if _, exist := m.tableEngines.Load(setting.TableID); exist {
			return nil, nil, ErrManagerTableExists
		}
	}

	if shoe != nil {
		opts = append(opts, WithShoe(shoe))
	}

	tableEngine := NewTableEngine(options, opts...)
	table, err := tableEngine.CreateTable(setting)
	if err != nil {
		_ = tableEngine.CloseTable()
		return nil, nil, err
	}

	m.tableEngines.Store(table.ID, tableEngine)

	return tableEngine, table, nil
}

func (m *manager) CloseTable(tableID string) error {
	tableEngine, err := m.GetTableEngine(tableID)
	if err != nil {
		return err
	}

	m.tableEngines.Delete(tableID)
	return tableEngine.CloseTable()
}

func (m *manager) CloseAll() {
	for _, tableID := range m.ListTables() {
		_ = m.CloseTable(tableID)
	}
}

func (m *manager) ListTables() []string {
	tableIDs := make([]string, 0)
	m.tableEngines.Range(func(key, value interface{}) bool {
		tableIDs = append(tableIDs, key.(string))
		return true
	})
	return tableIDs
}
