package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cachedObject is a remote answer kept for later runs.
type cachedObject struct {
	Name       string `gorm:"primaryKey"`
	RADeg      float64
	DecDeg     float64
	Source     string
	ResolvedAt time.Time
}

func (cachedObject) TableName() string { return "catalog_cache" }

// Cache stores resolved names in the plan database so repeated runs work
// without network access.
type Cache struct {
	open func() (*gorm.DB, error)

	once sync.Once
	db   *gorm.DB
	err  error
}

// NewCache migrates the cache table on db.
func NewCache(db *gorm.DB) (*Cache, error) {
	c := NewLazyCache(func() (*gorm.DB, error) { return db, nil })
	if _, err := c.conn(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewLazyCache defers open and the table migration to the first lookup, so
// runs that never reach the cache leave the database alone.
func NewLazyCache(open func() (*gorm.DB, error)) *Cache {
	return &Cache{open: open}
}

func (c *Cache) conn() (*gorm.DB, error) {
	c.once.Do(func() {
		db, err := c.open()
		if err == nil {
			err = db.AutoMigrate(&cachedObject{})
		}
		c.db, c.err = db, err
	})
	return c.db, c.err
}

func (c *Cache) Name() string { return "cache" }

func (c *Cache) Lookup(ctx context.Context, name string) (Coordinates, error) {
	db, err := c.conn()
	if err != nil {
		return Coordinates{}, err
	}
	var obj cachedObject
	err = db.WithContext(ctx).Where("name = ?", normalizeName(name)).Take(&obj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Coordinates{}, ErrNotFound
	}
	if err != nil {
		return Coordinates{}, err
	}
	return Coordinates{RADeg: obj.RADeg, DecDeg: obj.DecDeg}, nil
}

// Put stores or replaces the answer for name.
func (c *Cache) Put(ctx context.Context, name string, coords Coordinates, source string) error {
	db, err := c.conn()
	if err != nil {
		return err
	}
	obj := cachedObject{
		Name:       normalizeName(name),
		RADeg:      coords.RADeg,
		DecDeg:     coords.DecDeg,
		Source:     source,
		ResolvedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&obj).Error
}
