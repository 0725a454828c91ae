package selections

import (
	"fmt"
	"os"
	"time"

	"github.com/atinylittleshell/gsuggest/pkg/suggest"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Manager stores every suggestion the user committed.
type Manager struct {
	db *gorm.DB
}

type Entry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Query string
	Value string `gorm:"index"`
	Index int `gorm:"column:position"`
}

// ValueCount is how many times one value was selected.
type ValueCount struct {
	Value string
	Count int64
}

func NewManager(dbFilePath string) (*Manager, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database")
		return nil, err
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}

	return &Manager{
		db: db,
	}, nil
}

// Close closes the database connection.
func (manager *Manager) Close() error {
	sqlDB, err := manager.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record implements gline.SelectionRecorder.
func (manager *Manager) Record(selection suggest.Selection) error {
	entry := Entry{
		Query: selection.Query,
		Value: selection.Value,
		Index: selection.Index,
	}

	result := manager.db.Create(&entry)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// GetRecentEntries returns up to limit entries, newest first.
func (manager *Manager) GetRecentEntries(limit int) ([]Entry, error) {
	var entries []Entry
	result := manager.db.Order("created_at desc, id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// GetTopValues returns the most selected values, most frequent first.
func (manager *Manager) GetTopValues(limit int) ([]ValueCount, error) {
	var counts []ValueCount
	err := manager.db.Model(&Entry{}).
		Select("value, count(*) as count").
		Group("value").
		Order("count desc, value asc").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (manager *Manager) GetTotalCount() (int64, error) {
	var count int64
	result := manager.db.Model(&Entry{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (manager *Manager) DeleteEntry(id uint) error {
	result := manager.db.Delete(&Entry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no selection found with id %d", id)
	}
	return nil
}

func (manager *Manager) Reset() error {
	result := manager.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Entry{})
	return result.Error
}
